// Package ratelimit throttles request volume per caller using fixed-window
// counters held in process memory. There is no cross-process coordination:
// each instance owns an independent table.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed bool
	// RetryAfter is the whole number of seconds until the caller's window
	// resets. Populated only on rejection, always at least 1.
	RetryAfter int
	// Count is the number of requests charged to the key in the current
	// window, including this one.
	Count int
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter maintains one fixed-window counter per caller key. It is an
// injected, explicitly-owned value rather than a package singleton so tests
// get an isolated table each run. All methods are safe for concurrent use;
// the window-reset check and the increment happen under one lock so two
// racing requests at a window boundary cannot both reset the counter.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	max    int
	window time.Duration
}

// New builds a limiter that admits up to max requests per key per window.
func New(max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		entries: make(map[string]*entry),
		max:     max,
		window:  window,
	}
}

// Admit charges one request to key as of now and decides whether it may
// proceed. The charge sticks even if the caller later aborts the request.
func (l *Limiter) Admit(key string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{resetAt: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++

	if e.count > l.max {
		return Decision{
			RetryAfter: ceilSeconds(e.resetAt.Sub(now)),
			Count:      e.count,
		}
	}
	return Decision{Allowed: true, Count: e.count}
}

// Sweep drops entries whose window has already expired and reports how many
// were removed. Safe to run concurrently with Admit; live windows are never
// touched.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		if !now.Before(e.resetAt) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func ceilSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}

// UserKey buckets an authenticated caller by subject id, so limits follow
// the account across IP churn.
func UserKey(subjectID string) string {
	return "user-" + subjectID
}

// IPKey buckets an anonymous caller by source address.
func IPKey(addr string) string {
	return "ip-" + addr
}
