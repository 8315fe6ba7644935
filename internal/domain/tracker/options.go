// Package tracker maintains the bounded event log and per-repository
// aggregates.
package tracker

import (
	"time"

	"github.com/okian/sportscast/internal/domain/dedupe"
	"github.com/okian/sportscast/internal/domain/scoring"
	"github.com/okian/sportscast/pkg/logger"
)

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithDeduper replaces the default in-memory deduper.
func WithDeduper(d dedupe.Deduper) Option {
	return func(t *Tracker) {
		if d != nil {
			t.deduper = d
		}
	}
}

// WithScorer replaces the default scoring model.
func WithScorer(s *scoring.Model) Option {
	return func(t *Tracker) {
		if s != nil {
			t.scorer = s
		}
	}
}

// WithAudioSink attaches the audio output port. Nil disables the cue.
func WithAudioSink(a AudioSink) Option {
	return func(t *Tracker) {
		t.audio = a
	}
}

// WithClock injects the time source used for score recency.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLogger sets a custom logger for the tracker.
func WithLogger(l logger.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}
