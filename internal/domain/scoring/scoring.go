// Package scoring computes repository activity scores and leaderboard order.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/okian/sportscast/internal/domain/model"
	"github.com/okian/sportscast/internal/domain/types"
)

// Default scoring configuration constants.
const (
	defaultKindWeight = 1
	engagementWeight  = 2

	hotWindow  = time.Hour
	warmWindow = 24 * time.Hour
	hotBoost   = 1.5
	warmBoost  = 1.2
)

// defaultWeights maps each resolved kind to its contribution per event.
var defaultWeights = map[model.Kind]int{
	model.KindRelease:     10,
	model.KindPullRequest: 5,
	model.KindFork:        4,
	model.KindPush:        3,
	model.KindIssue:       2,
	model.KindCreate:      2,
	model.KindStar:        1,
	model.KindComment:     1,
}

// Option applies a configuration option to the Model.
type Option func(*Model)

// WithKindWeights overrides weights for specific kinds. Non-positive
// weights are ignored.
func WithKindWeights(weights map[model.Kind]int) Option {
	return func(m *Model) {
		for kind, w := range weights {
			if w > 0 {
				m.weights[kind] = w
			}
		}
	}
}

// WithDefaultWeight sets the weight applied to kinds absent from the table.
func WithDefaultWeight(w int) Option {
	return func(m *Model) {
		if w > 0 {
			m.defaultWeight = w
		}
	}
}

// Model computes activity scores. It is pure: no I/O, no hidden state,
// and scoring the same stats twice yields the same value.
type Model struct {
	weights       map[model.Kind]int
	defaultWeight int
}

// New creates a scoring model with the default weight table.
func New(opts ...Option) *Model {
	m := &Model{
		weights:       make(map[model.Kind]int, len(defaultWeights)),
		defaultWeight: defaultKindWeight,
	}
	for kind, w := range defaultWeights {
		m.weights[kind] = w
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Score computes the activity score for one repository at the given
// instant. The recency boost multiplies the whole weighted sum before
// the engagement term is added; the result rounds to nearest.
func (m *Model) Score(stats *model.RepoStats, now time.Time) int {
	weighted := 0
	for kind, count := range stats.KindCounts {
		weighted += m.weight(kind) * count
	}

	boosted := float64(weighted) * m.recencyBoost(stats.LastActivity, now)
	engagement := float64(engagementWeight * stats.DistinctActors())

	return int(math.Round(boosted + engagement))
}

// Rank orders repositories into a leaderboard: score descending, ties
// broken by total event count descending, then by name ascending. The
// order is deterministic regardless of input order.
func (m *Model) Rank(stats []*model.RepoStats) []types.Entry {
	sorted := make([]*model.RepoStats, len(stats))
	copy(sorted, stats)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.TotalEvents != b.TotalEvents {
			return a.TotalEvents > b.TotalEvents
		}
		return a.Repo < b.Repo
	})

	entries := make([]types.Entry, len(sorted))
	for i, s := range sorted {
		entries[i] = types.Entry{
			Rank:   i + 1,
			Repo:   s.Repo,
			Score:  s.Score,
			Events: s.TotalEvents,
		}
	}
	return entries
}

func (m *Model) weight(kind model.Kind) int {
	if w, ok := m.weights[kind]; ok {
		return w
	}
	return m.defaultWeight
}

func (m *Model) recencyBoost(last, now time.Time) float64 {
	age := now.Sub(last)
	switch {
	case age < hotWindow:
		return hotBoost
	case age < warmWindow:
		return warmBoost
	default:
		return 1.0
	}
}
