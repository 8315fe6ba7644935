// Package app provides the engine facade that wires the feed, tracker,
// scheduler and commentary together, one poll cycle at a time.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/okian/sportscast/internal/adapters/feed"
	"github.com/okian/sportscast/internal/adapters/settings"
	"github.com/okian/sportscast/internal/commentary"
	"github.com/okian/sportscast/internal/domain/model"
	"github.com/okian/sportscast/internal/domain/tracker"
	"github.com/okian/sportscast/internal/domain/types"
	"github.com/okian/sportscast/internal/scheduler"
	"github.com/okian/sportscast/pkg/logger"
	"github.com/okian/sportscast/pkg/metrics"
)

// FilterAll disables the event-kind view filter.
const FilterAll = "all"

// Stats is the point-in-time session summary exposed to callers.
type Stats struct {
	TrackedRepos int
	SeenIDs      int
	Mode         string
	Budget       model.RateBudget
	HasBudget    bool
	KindCounts   map[model.Kind]int
	Countdown    time.Duration
}

// Engine is the facade consumed by the presentation layer. All reads
// are synchronous over current state; only the poll cycle writes.
type Engine struct {
	mu sync.RWMutex

	tracker *tracker.Tracker
	sched   *scheduler.Scheduler
	caster  *commentary.Engine
	source  feed.Source // real feed
	demo    feed.Source // synthetic fallback
	store   settings.Store

	scope  model.Scope
	filter string

	board      []types.Entry
	prevRanks  map[string]int // rank snapshot from the previous render
	deltas     map[string]int // positive means the repository climbed
	commentary string

	wake chan struct{}
	log  logger.Logger
}

// New constructs an Engine with default collaborators: a live GitHub
// source, a demo synthesizer, template-only commentary and a
// memory-only settings store.
func New(opts ...Option) *Engine {
	memStore, _ := settings.NewFileStore("")
	e := &Engine{
		tracker:   tracker.New(),
		sched:     scheduler.New(),
		caster:    commentary.New(),
		source:    feed.NewGitHubSource(),
		demo:      feed.NewDemoSource(),
		store:     memStore,
		scope:     model.Scope{Type: model.ScopeGlobal},
		filter:    FilterAll,
		prevRanks: make(map[string]int),
		deltas:    make(map[string]int),
		wake:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drives the poll loop until ctx is canceled. The first cycle fires
// immediately; each subsequent one at the scheduler's effective
// interval. A new fetch never starts while a prior one is outstanding.
func (e *Engine) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timer.C:
		}

		e.cycle(ctx)
		timer.Reset(e.sched.Reschedule())
	}
}

// Cycle runs one poll cycle synchronously. Exposed for tests and for
// the wake path; Run is the normal driver.
func (e *Engine) Cycle(ctx context.Context) {
	e.cycle(ctx)
	e.sched.Reschedule()
}

func (e *Engine) cycle(ctx context.Context) {
	metrics.RecordPollCycle()
	scope := e.Scope()

	var page feed.Page
	if e.sched.InDemo() {
		// Degraded for the session: synthesize locally, zero real fetches.
		var err error
		if page, err = e.demo.Fetch(ctx, scope, ""); err != nil && e.log != nil {
			e.log.Warn(ctx, "demo feed fetch failed", logger.Error(err))
		}
	} else {
		var err error
		page, err = e.source.Fetch(ctx, scope, e.sched.Token())
		if err != nil {
			if e.log != nil {
				e.log.Warn(ctx, "feed fetch failed", logger.Error(err))
			}
			e.sched.ObserveFailure()
			return
		}
		e.sched.ObserveSuccess(page.Token)
		if page.Budget != nil {
			e.sched.ObserveBudget(*page.Budget)
		}
		if page.NotModified {
			metrics.RecordFetchNotModified()
		}
	}

	e.mu.Lock()
	admitted := e.tracker.Ingest(ctx, page.Items)
	board := e.tracker.Leaderboard()

	ranks := make(map[string]int, len(board))
	deltas := make(map[string]int, len(board))
	for _, row := range board {
		ranks[row.Repo] = row.Rank
		if prev, ok := e.prevRanks[row.Repo]; ok {
			deltas[row.Repo] = prev - row.Rank
		}
	}
	e.board = board
	e.deltas = deltas
	e.prevRanks = ranks // overwrite whole, never merge
	e.mu.Unlock()

	if len(admitted) == 0 {
		return
	}

	// Commentary covers only the single most recent new event. The call
	// may overlap the next cycle's bookkeeping but serializes against
	// itself inside the commentary engine.
	latest := admitted[0]
	for _, ev := range admitted[1:] {
		if ev.CreatedAt.After(latest.CreatedAt) {
			latest = ev
		}
	}
	go func() {
		text := e.caster.Generate(ctx, latest, topRows(board))
		e.mu.Lock()
		e.commentary = text
		e.mu.Unlock()
		if e.log != nil {
			e.log.Info(ctx, "commentary", logger.String("text", text))
		}
	}()
}

// Events returns the visible log, newest first, honoring the view filter.
func (e *Engine) Events() []model.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()

	all := e.tracker.Events()
	if e.filter == FilterAll || e.filter == "" {
		return all
	}
	filtered := all[:0:0]
	for _, ev := range all {
		if string(ev.Kind) == e.filter {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// Leaderboard returns the ranking from the last completed cycle.
func (e *Engine) Leaderboard() []types.Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]types.Entry, len(e.board))
	copy(out, e.board)
	return out
}

// RankDelta reports how far a repository moved since the previous
// leaderboard render. Positive means it climbed; unknown names are 0.
func (e *Engine) RankDelta(repo string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.deltas[repo]
}

// Commentary returns the latest announcement line.
func (e *Engine) Commentary() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.commentary
}

// Scope returns the scope under observation.
func (e *Engine) Scope() model.Scope {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scope
}

// Stats summarizes the session.
func (e *Engine) Stats() Stats {
	budget, hasBudget := e.sched.Budget()

	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		TrackedRepos: e.tracker.TrackedRepos(),
		SeenIDs:      e.tracker.SeenIDs(),
		Mode:         e.sched.Mode().String(),
		Budget:       budget,
		HasBudget:    hasBudget,
		KindCounts:   e.tracker.KindCounts(),
		Countdown:    e.sched.Countdown(),
	}
}

// ApplyScope switches the slice of the feed under observation. It
// clears the whole session atomically, persists the choice, and
// triggers an immediate re-fetch. This is also the operator's way out
// of demo fallback.
func (e *Engine) ApplyScope(ctx context.Context, scope model.Scope) error {
	if !scope.Valid() {
		return feed.ErrInvalidScope
	}

	e.mu.Lock()
	e.scope = scope
	e.tracker.Reset(ctx)
	e.board = nil
	e.prevRanks = make(map[string]int)
	e.deltas = make(map[string]int)
	e.commentary = ""
	e.mu.Unlock()
	e.sched.Reset()

	if err := e.store.Set(ctx, settings.KeyScopeType, string(scope.Type)); err != nil && e.log != nil {
		e.log.Warn(ctx, "persisting scope type failed", logger.Error(err))
	}
	if err := e.store.Set(ctx, settings.KeyScopeValue, scope.Value); err != nil && e.log != nil {
		e.log.Warn(ctx, "persisting scope value failed", logger.Error(err))
	}

	select {
	case e.wake <- struct{}{}:
	default:
	}
	return nil
}

// SetEventFilter narrows the visible log to one kind, or FilterAll.
func (e *Engine) SetEventFilter(ctx context.Context, kind string) {
	e.mu.Lock()
	if kind == "" {
		kind = FilterAll
	}
	e.filter = kind
	e.mu.Unlock()

	if err := e.store.Set(ctx, settings.KeyEventFilter, kind); err != nil && e.log != nil {
		e.log.Warn(ctx, "persisting event filter failed", logger.Error(err))
	}
}

// ApplyCommentary reconfigures the remote commentary path and persists
// the choice. An empty endpoint disables the remote path; the template
// fallback keeps the broadcast going regardless.
func (e *Engine) ApplyCommentary(ctx context.Context, endpoint, key, modelID string) {
	e.caster.SetRemote(endpoint, key, modelID)

	pairs := map[string]string{
		settings.KeyCommentaryEndpoint: endpoint,
		settings.KeyCommentaryKey:      key,
		settings.KeyCommentaryModel:    modelID,
	}
	for k, v := range pairs {
		if err := e.store.Set(ctx, k, v); err != nil && e.log != nil {
			e.log.Warn(ctx, "persisting commentary setting failed",
				logger.String("key", k), logger.Error(err))
		}
	}
}

// TestCommentary runs the explicit connectivity check against the
// commentary collaborator. This is the only path that surfaces
// configuration validation failures.
func (e *Engine) TestCommentary(ctx context.Context) error {
	return e.caster.TestConnection(ctx)
}

func topRows(board []types.Entry) []types.Entry {
	const n = 5
	if len(board) <= n {
		return board
	}
	return board[:n]
}
