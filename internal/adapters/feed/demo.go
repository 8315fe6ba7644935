package feed

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sportscast/internal/domain/model"
)

// Demo synthesis bounds per cycle.
const (
	demoMinItems = 1
	demoMaxItems = 3
)

// Plausible raw material for synthesized events.
var (
	demoOwners = []string{"lunar", "acme", "plumbob", "nightowl", "tinyforge", "driftwood"}
	demoNames  = []string{"telemetry", "rocket-kit", "hydra", "parser", "anvil", "buoy"}
	demoActors = []string{
		"alice-dev", "bobcat", "carol-codes", "dmitri42",
		"erin-oss", "frankly", "grace-h",
	}
	demoTypes = []string{
		"WatchEvent", "ForkEvent", "PullRequestEvent", "PushEvent",
		"IssuesEvent", "ReleaseEvent", "CreateEvent", "IssueCommentEvent",
	}
)

// DemoSource synthesizes plausible events locally. It backs the demo
// fallback: once two consecutive real fetches fail, the engine swaps in
// this source and never touches the network again until reset.
type DemoSource struct {
	now func() time.Time
}

// DemoOption applies a configuration option to the DemoSource.
type DemoOption func(*DemoSource)

// WithDemoClock injects the time source used for event timestamps.
func WithDemoClock(now func() time.Time) DemoOption {
	return func(d *DemoSource) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDemoSource creates the synthetic feed source.
func NewDemoSource(opts ...DemoOption) *DemoSource {
	d := &DemoSource{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch synthesizes a small batch of events shaped like the real feed.
// It never fails and carries no budget metadata or token.
func (d *DemoSource) Fetch(_ context.Context, scope model.Scope, _ string) (Page, error) {
	count := demoMinItems + rand.Intn(demoMaxItems-demoMinItems+1)
	now := d.now()

	items := make([]model.RawItem, count)
	for i := range items {
		items[i] = model.RawItem{
			ID:        uuid.New().String(),
			Repo:      demoRepoFor(scope),
			Type:      demoTypes[rand.Intn(len(demoTypes))],
			Actor:     demoActors[rand.Intn(len(demoActors))],
			CreatedAt: now.Add(-time.Duration(rand.Intn(30)) * time.Second),
		}
	}
	return Page{Items: items}, nil
}

// demoRepoFor keeps synthesized names consistent with the scope so the
// leaderboard still reads sensibly in demo mode.
func demoRepoFor(scope model.Scope) string {
	switch scope.Type {
	case model.ScopeRepo:
		return scope.Value
	case model.ScopeOrg, model.ScopeUser:
		return scope.Value + "/" + demoNames[rand.Intn(len(demoNames))]
	default:
		return demoOwners[rand.Intn(len(demoOwners))] + "/" + demoNames[rand.Intn(len(demoNames))]
	}
}
