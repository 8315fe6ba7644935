// Package tracker maintains the bounded event log and per-repository
// aggregates. It owns all mutable session state; only Ingest writes.
package tracker

import (
	"context"
	"sort"
	"time"

	"github.com/okian/sportscast/internal/domain/dedupe"
	"github.com/okian/sportscast/internal/domain/model"
	"github.com/okian/sportscast/internal/domain/scoring"
	"github.com/okian/sportscast/internal/domain/types"
	"github.com/okian/sportscast/pkg/logger"
	"github.com/okian/sportscast/pkg/metrics"
)

// Capacity constants for the session state.
const (
	// logCapacity bounds the visible event log. Eviction is pure
	// truncation of the oldest entries, not time-based expiry.
	logCapacity = 50

	// recentRingCapacity bounds the per-repository recent ring.
	recentRingCapacity = 5
)

// AudioSink is the fire-and-forget output port for per-event audio cues.
// Failures are discarded at the call site and never reach the caller.
type AudioSink interface {
	Play(ctx context.Context, kind model.Kind) error
}

// Tracker deduplicates raw feed items and accumulates them into the
// bounded log and per-repository stats.
type Tracker struct {
	deduper dedupe.Deduper
	scorer  *scoring.Model
	audio   AudioSink
	now     func() time.Time
	log     logger.Logger

	events []model.Event // newest first, capped at logCapacity
	stats  map[string]*model.RepoStats
}

// New constructs a Tracker with default collaborators.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		deduper: dedupe.NewInMemoryDeduper(),
		scorer:  scoring.New(),
		now:     time.Now,
		stats:   make(map[string]*model.RepoStats),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Ingest runs the admission pipeline over a batch of raw items and
// returns the newly admitted events in arrival order. Items missing a
// required field or carrying a known identifier are dropped.
func (t *Tracker) Ingest(ctx context.Context, items []model.RawItem) []model.Event {
	// Freshness is transient: it describes this cycle only.
	for i := range t.events {
		t.events[i].Fresh = false
	}

	var admitted []model.Event
	for _, item := range items {
		if !item.Valid() {
			metrics.RecordItemMalformed()
			continue
		}
		if t.deduper.SeenAndRecord(ctx, item.ID) {
			metrics.RecordItemDuplicate()
			continue
		}

		ev := normalize(item)
		t.accumulate(ev)
		admitted = append(admitted, ev)
		metrics.RecordEventAdmitted()

		if t.audio != nil {
			if err := t.audio.Play(ctx, ev.Kind); err != nil && t.log != nil {
				t.log.Debug(ctx, "audio sink failed", logger.String("kind", string(ev.Kind)), logger.Error(err))
			}
		}
	}

	if len(admitted) > 0 {
		t.events = append(t.events, admitted...)
		sort.SliceStable(t.events, func(i, j int) bool {
			return t.events[i].CreatedAt.After(t.events[j].CreatedAt)
		})
		if len(t.events) > logCapacity {
			t.events = t.events[:logCapacity]
		}
		metrics.SetTrackedRepos(len(t.stats))
	}

	return admitted
}

// Events returns the visible log, newest first. The slice is a copy.
func (t *Tracker) Events() []model.Event {
	out := make([]model.Event, len(t.events))
	copy(out, t.events)
	return out
}

// Leaderboard ranks every tracked repository.
func (t *Tracker) Leaderboard() []types.Entry {
	stats := make([]*model.RepoStats, 0, len(t.stats))
	for _, s := range t.stats {
		stats = append(stats, s)
	}
	return t.scorer.Rank(stats)
}

// StatsFor returns the aggregate for one repository, or nil if unseen.
func (t *Tracker) StatsFor(repo string) *model.RepoStats {
	return t.stats[repo]
}

// KindCounts returns event counts by kind across the whole session.
func (t *Tracker) KindCounts() map[model.Kind]int {
	counts := make(map[model.Kind]int)
	for _, s := range t.stats {
		for kind, n := range s.KindCounts {
			counts[kind] += n
		}
	}
	return counts
}

// TrackedRepos returns the number of repositories with at least one event.
func (t *Tracker) TrackedRepos() int {
	return len(t.stats)
}

// SeenIDs returns the size of the dedup set.
func (t *Tracker) SeenIDs() int {
	return t.deduper.Size()
}

// Reset atomically drops the log, the aggregates and the seen set.
func (t *Tracker) Reset(ctx context.Context) {
	t.events = nil
	t.stats = make(map[string]*model.RepoStats)
	t.deduper.Reset(ctx)
	metrics.SetTrackedRepos(0)
}

func normalize(item model.RawItem) model.Event {
	actor := item.Actor
	if actor == "" {
		actor = model.UnknownActor
	}
	return model.Event{
		ID:        item.ID,
		Repo:      item.Repo,
		Kind:      model.ResolveKind(item.Type),
		Actor:     actor,
		CreatedAt: item.CreatedAt,
		Fresh:     true,
	}
}

// accumulate folds one admitted event into its repository aggregate.
// The score is recomputed whole rather than patched to avoid drift.
func (t *Tracker) accumulate(ev model.Event) {
	s, ok := t.stats[ev.Repo]
	if !ok {
		s = &model.RepoStats{
			Repo:       ev.Repo,
			KindCounts: make(map[model.Kind]int),
			Actors:     make(map[string]struct{}),
			FirstSeen:  ev.CreatedAt,
		}
		t.stats[ev.Repo] = s
	}

	s.TotalEvents++
	s.KindCounts[ev.Kind]++
	s.Actors[ev.Actor] = struct{}{}
	if ev.CreatedAt.Before(s.FirstSeen) {
		s.FirstSeen = ev.CreatedAt
	}
	if ev.CreatedAt.After(s.LastActivity) {
		s.LastActivity = ev.CreatedAt
	}

	s.Recent = append([]model.EventSummary{{Kind: ev.Kind, Actor: ev.Actor, At: ev.CreatedAt}}, s.Recent...)
	if len(s.Recent) > recentRingCapacity {
		s.Recent = s.Recent[:recentRingCapacity]
	}

	s.Score = t.scorer.Score(s, t.now())
}
