// Package analytics records audit events for the auth flows. Recording is
// fire-and-forget: a slow or failing sink must never block or fail the
// response that triggered the event.
package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event is a single recorded occurrence, such as a login or logout.
type Event struct {
	UserID     string            `json:"user_id"`
	Name       string            `json:"event"`
	OccurredAt time.Time         `json:"occurred_at"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Well-known event names.
const (
	EventLogin  = "user_login"
	EventLogout = "user_logout"
	EventSignup = "user_signup"
)

// Sink accepts events for asynchronous recording.
type Sink interface {
	Track(event Event)
}

// LogSink records events through the structured logger. Events are handed
// off to a background worker over a bounded queue; when the queue is full
// the event is dropped and the drop itself is logged.
type LogSink struct {
	logger *zap.Logger
	queue  chan Event
	done   chan struct{}
}

// NewLogSink builds and starts a sink with the given queue capacity.
func NewLogSink(logger *zap.Logger, capacity int) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = 256
	}
	s := &LogSink{
		logger: logger,
		queue:  make(chan Event, capacity),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Track enqueues an event without blocking the caller.
func (s *LogSink) Track(event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	select {
	case s.queue <- event:
	default:
		s.logger.Warn("analytics event dropped", zap.String("event", event.Name))
	}
}

// Close stops the worker after draining queued events, honoring ctx.
func (s *LogSink) Close(ctx context.Context) error {
	close(s.queue)
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *LogSink) run() {
	defer close(s.done)
	for event := range s.queue {
		s.logger.Info("analytics event",
			zap.String("event", event.Name),
			zap.String("user_id", event.UserID),
			zap.Time("occurred_at", event.OccurredAt),
			zap.Any("metadata", event.Metadata),
		)
	}
}
