package app

import (
	"github.com/okian/sportscast/internal/adapters/feed"
	"github.com/okian/sportscast/internal/adapters/settings"
	"github.com/okian/sportscast/internal/commentary"
	"github.com/okian/sportscast/internal/domain/model"
	"github.com/okian/sportscast/internal/domain/tracker"
	"github.com/okian/sportscast/internal/scheduler"
	"github.com/okian/sportscast/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithFeed replaces the real feed source.
func WithFeed(s feed.Source) Option {
	return func(e *Engine) {
		if s != nil {
			e.source = s
		}
	}
}

// WithDemoFeed replaces the synthetic fallback source.
func WithDemoFeed(s feed.Source) Option {
	return func(e *Engine) {
		if s != nil {
			e.demo = s
		}
	}
}

// WithTracker replaces the default tracker.
func WithTracker(t *tracker.Tracker) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracker = t
		}
	}
}

// WithScheduler replaces the default scheduler.
func WithScheduler(s *scheduler.Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sched = s
		}
	}
}

// WithCommentary replaces the default commentary engine.
func WithCommentary(c *commentary.Engine) Option {
	return func(e *Engine) {
		if c != nil {
			e.caster = c
		}
	}
}

// WithSettings attaches the persistence collaborator.
func WithSettings(s settings.Store) Option {
	return func(e *Engine) {
		if s != nil {
			e.store = s
		}
	}
}

// WithScope sets the initial scope under observation.
func WithScope(scope model.Scope) Option {
	return func(e *Engine) {
		if scope.Valid() {
			e.scope = scope
		}
	}
}

// WithEventFilter sets the initial view filter.
func WithEventFilter(kind string) Option {
	return func(e *Engine) {
		if kind != "" {
			e.filter = kind
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}
