// Package scheduler owns poll timing and the throttle state machine.
package scheduler

import (
	"time"

	"github.com/okian/sportscast/pkg/logger"
)

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithBaseInterval sets the user-configured poll speed.
func WithBaseInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.baseInterval = d
		}
	}
}

// WithAutoProtect enables or disables automatic throttle recovery.
func WithAutoProtect(enabled bool) Option {
	return func(s *Scheduler) {
		s.autoProtect = enabled
	}
}

// WithClock injects the time source, for tests that cannot wait on the
// wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the scheduler.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}
