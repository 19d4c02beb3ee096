package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmitUpToMax(t *testing.T) {
	limiter := New(100, time.Minute)
	now := time.Now()

	for i := 1; i <= 100; i++ {
		decision := limiter.Admit("ip-203.0.113.7", now)
		require.True(t, decision.Allowed, "request %d should be admitted", i)
		assert.Equal(t, i, decision.Count)
	}

	decision := limiter.Admit("ip-203.0.113.7", now)
	assert.False(t, decision.Allowed)
	assert.GreaterOrEqual(t, decision.RetryAfter, 1)
	assert.LessOrEqual(t, decision.RetryAfter, 60)
}

func TestRetryAfterShrinksAsWindowAges(t *testing.T) {
	limiter := New(1, time.Minute)
	start := time.Now()

	require.True(t, limiter.Admit("k", start).Allowed)

	late := start.Add(50 * time.Second)
	decision := limiter.Admit("k", late)
	require.False(t, decision.Allowed)
	assert.LessOrEqual(t, decision.RetryAfter, 10)
	assert.GreaterOrEqual(t, decision.RetryAfter, 1)
}

func TestWindowReset(t *testing.T) {
	limiter := New(2, time.Minute)
	start := time.Now()

	require.True(t, limiter.Admit("k", start).Allowed)
	require.True(t, limiter.Admit("k", start).Allowed)
	require.False(t, limiter.Admit("k", start).Allowed)

	// at exactly the reset boundary the key behaves as request #1 again
	reset := start.Add(time.Minute)
	decision := limiter.Admit("k", reset)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.Count)
}

func TestKeysAreIndependent(t *testing.T) {
	limiter := New(1, time.Minute)
	now := time.Now()

	require.True(t, limiter.Admit(UserKey("alice"), now).Allowed)
	require.False(t, limiter.Admit(UserKey("alice"), now).Allowed)
	assert.True(t, limiter.Admit(UserKey("bob"), now).Allowed)
	assert.True(t, limiter.Admit(IPKey("203.0.113.7"), now).Allowed)
}

func TestSweepRemovesOnlyExpiredEntries(t *testing.T) {
	limiter := New(10, time.Minute)
	start := time.Now()

	limiter.Admit("old", start)
	limiter.Admit("fresh", start.Add(30*time.Second))
	require.Equal(t, 2, limiter.Len())

	removed := limiter.Sweep(start.Add(time.Minute))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, limiter.Len())

	// the surviving entry keeps its count
	decision := limiter.Admit("fresh", start.Add(40*time.Second))
	assert.Equal(t, 2, decision.Count)
}

func TestConcurrentAdmitsCountExactly(t *testing.T) {
	const workers = 8
	const perWorker = 50
	const max = 100

	limiter := New(max, time.Minute)
	now := time.Now()

	var wg sync.WaitGroup
	admitted := make([]int, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if limiter.Admit("shared", now).Allowed {
					admitted[w]++
				}
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for _, n := range admitted {
		total += n
	}
	assert.Equal(t, max, total)
}

func TestKeyDerivation(t *testing.T) {
	assert.Equal(t, "user-42", UserKey("42"))
	assert.Equal(t, "ip-198.51.100.1", IPKey("198.51.100.1"))
}

func TestCeilSecondsRoundsUp(t *testing.T) {
	cases := map[time.Duration]int{
		time.Millisecond:                 1,
		time.Second:                      1,
		1500 * time.Millisecond:          2,
		59*time.Second + time.Nanosecond: 60,
		time.Minute:                      60,
	}
	for d, want := range cases {
		assert.Equal(t, want, ceilSeconds(d), fmt.Sprintf("duration %v", d))
	}
}
