// Package scheduler owns poll timing: rate-budget introspection, the
// throttle state machine, conditional-request token carry, and the demo
// fallback entered after repeated transport failures.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/okian/sportscast/internal/domain/model"
	"github.com/okian/sportscast/pkg/logger"
	"github.com/okian/sportscast/pkg/metrics"
)

// Mode is the scheduler state machine state.
type Mode int

// Scheduler modes.
const (
	ModeNormal Mode = iota
	ModeThrottled
	ModeDemoFallback
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeThrottled:
		return "throttled"
	case ModeDemoFallback:
		return "demo"
	default:
		return "unknown"
	}
}

// State machine thresholds.
const (
	// throttleEnterRemaining forces the long interval once the budget
	// drops this low.
	throttleEnterRemaining = 10

	// throttleExitRemaining releases the throttle once the budget has
	// recovered past it, provided auto-protection is enabled.
	throttleExitRemaining = 30

	// throttledInterval overrides the configured speed while throttled.
	throttledInterval = 30 * time.Second

	// demoFailureThreshold is the consecutive-failure count that flips
	// the session into demo fallback. Exit is manual only.
	demoFailureThreshold = 2

	defaultBaseInterval = 10 * time.Second
)

// Scheduler tracks when the next poll should fire and in which mode.
// It never performs I/O itself; the engine drives it with observations.
type Scheduler struct {
	mu sync.Mutex

	mode         Mode
	baseInterval time.Duration
	autoProtect  bool

	failures  int
	budget    model.RateBudget
	hasBudget bool
	token     string // conditional-request token from the last real fetch

	now      func() time.Time
	nextFire time.Time

	log logger.Logger
}

// New constructs a Scheduler in ModeNormal.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		baseInterval: defaultBaseInterval,
		autoProtect:  true,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.nextFire = s.now().Add(s.baseInterval)
	return s
}

// Mode returns the current state machine state.
func (s *Scheduler) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Throttled reports whether the long interval is in force.
func (s *Scheduler) Throttled() bool {
	return s.Mode() == ModeThrottled
}

// InDemo reports whether the session has degraded to synthetic events.
func (s *Scheduler) InDemo() bool {
	return s.Mode() == ModeDemoFallback
}

// EffectiveInterval returns the interval the next cycle is scheduled at.
// While throttled the fixed long period wins over the configured speed.
func (s *Scheduler) EffectiveInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveIntervalLocked()
}

func (s *Scheduler) effectiveIntervalLocked() time.Duration {
	if s.mode == ModeThrottled {
		return throttledInterval
	}
	return s.baseInterval
}

// SetBaseInterval changes the user-configured poll speed. It does not
// override the throttle.
func (s *Scheduler) SetBaseInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseInterval = d
}

// ObserveBudget folds the collaborator's rate headers into the state
// machine. Responses without budget metadata must not call this; prior
// values are retained in that case.
func (s *Scheduler) ObserveBudget(b model.RateBudget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budget = b
	s.hasBudget = true
	metrics.SetRateBudget(b.Remaining, b.Limit)

	switch s.mode {
	case ModeNormal:
		if b.Remaining <= throttleEnterRemaining {
			s.mode = ModeThrottled
			if s.log != nil {
				s.log.Warn(context.Background(), "rate budget low, throttling",
					logger.Int("remaining", b.Remaining),
					logger.String("interval", throttledInterval.String()))
			}
		}
	case ModeThrottled:
		if s.autoProtect && b.Remaining > throttleExitRemaining {
			s.mode = ModeNormal
			if s.log != nil {
				s.log.Info(context.Background(), "rate budget recovered",
					logger.Int("remaining", b.Remaining))
			}
		}
	case ModeDemoFallback:
		// Terminal for the session; only Reset leaves it.
	}
	metrics.SetSchedulerMode(int(s.mode))
}

// Budget returns the last observed rate budget, if any was ever seen.
func (s *Scheduler) Budget() (model.RateBudget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget, s.hasBudget
}

// ObserveSuccess records a successful real fetch and carries the
// conditional-request token forward. A not-modified response is a
// success and passes the previous token again.
func (s *Scheduler) ObserveSuccess(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures = 0
	if token != "" {
		s.token = token
	}
}

// ObserveFailure records a transport failure. Two consecutive failures
// flip the session into demo fallback.
func (s *Scheduler) ObserveFailure() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures++
	metrics.RecordFetchFailure()
	if s.failures >= demoFailureThreshold && s.mode != ModeDemoFallback {
		s.mode = ModeDemoFallback
		metrics.SetSchedulerMode(int(s.mode))
		if s.log != nil {
			s.log.Warn(context.Background(), "entering demo fallback after consecutive fetch failures",
				logger.Int("failures", s.failures))
		}
	}
}

// Token returns the conditional-request token for the next fetch.
func (s *Scheduler) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Reschedule fixes the next fire instant from the effective interval
// and returns the delay until then.
func (s *Scheduler) Reschedule() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	interval := s.effectiveIntervalLocked()
	s.nextFire = s.now().Add(interval)
	metrics.SetPollInterval(interval)
	return interval
}

// Countdown returns the time left until the next scheduled poll. It is
// cosmetic, derived from the interval, and has no authority over when
// the fetch actually fires.
func (s *Scheduler) Countdown() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	left := s.nextFire.Sub(s.now())
	if left < 0 {
		return 0
	}
	return left
}

// Reset returns the machine to ModeNormal and drops failures, token and
// budget. This is the only exit from demo fallback.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = ModeNormal
	s.failures = 0
	s.token = ""
	s.budget = model.RateBudget{}
	s.hasBudget = false
	s.nextFire = s.now().Add(s.baseInterval)
	metrics.SetSchedulerMode(int(s.mode))
}
