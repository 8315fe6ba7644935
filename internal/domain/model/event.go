// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// UnknownActor is the sentinel recorded when a feed item carries no actor.
const UnknownActor = "unknown"

// Kind is a resolved event kind, e.g. "star" or "pull_request".
// The enum is open: tags without a mapping pass through lowercased.
type Kind string

// Resolved kinds with dedicated scoring weights and commentary templates.
const (
	KindStar        Kind = "star"
	KindFork        Kind = "fork"
	KindPullRequest Kind = "pull_request"
	KindPush        Kind = "push"
	KindIssue       Kind = "issue"
	KindRelease     Kind = "release"
	KindCreate      Kind = "create"
	KindComment     Kind = "comment"
)

// kindTags maps upstream feed type tags to resolved kinds.
var kindTags = map[string]Kind{
	"WatchEvent":        KindStar,
	"ForkEvent":         KindFork,
	"PullRequestEvent":  KindPullRequest,
	"PushEvent":         KindPush,
	"IssuesEvent":       KindIssue,
	"ReleaseEvent":      KindRelease,
	"CreateEvent":       KindCreate,
	"IssueCommentEvent": KindComment,
}

// ResolveKind maps an upstream event type tag to a Kind. Unmapped tags
// still rank and render, they just score with the default weight.
func ResolveKind(tag string) Kind {
	if k, ok := kindTags[tag]; ok {
		return k
	}
	return Kind(strings.ToLower(strings.TrimSuffix(tag, "Event")))
}

// RawItem is an untrusted record as delivered by the feed collaborator.
type RawItem struct {
	ID        string
	Repo      string // full name, owner/repo
	Type      string // upstream type tag, e.g. "WatchEvent"
	Actor     string // optional
	CreatedAt time.Time
	Payload   json.RawMessage // opaque, not consumed by the core
}

// Valid reports whether the item carries every required field.
// Invalid items are discarded before normalization, never stored.
func (r RawItem) Valid() bool {
	return r.ID != "" && r.Repo != "" && r.Type != "" && !r.CreatedAt.IsZero()
}

// Event is a normalized feed event. Immutable once constructed; owned
// exclusively by the tracker's bounded log.
type Event struct {
	ID        string
	Repo      string
	Kind      Kind
	Actor     string
	CreatedAt time.Time

	// Fresh marks events admitted during the current poll cycle.
	Fresh bool
}

// EventSummary is the compact form kept in a repository's recent ring.
type EventSummary struct {
	Kind  Kind
	Actor string
	At    time.Time
}

// RepoStats aggregates everything seen for one repository during a
// session. Created on first sighting, never deleted until a full reset.
type RepoStats struct {
	Repo         string
	TotalEvents  int
	KindCounts   map[Kind]int
	Recent       []EventSummary // newest first, capped at 5
	FirstSeen    time.Time
	LastActivity time.Time
	Actors       map[string]struct{}
	Score        int // recomputed whole on every update
}

// DistinctActors returns the engagement signal: how many different
// actors have touched this repository.
func (s *RepoStats) DistinctActors() int {
	return len(s.Actors)
}

// RateBudget mirrors the collaborator's last reported rate headers.
// Retained as-is across responses that carry no budget metadata.
type RateBudget struct {
	Remaining int
	Limit     int
	Reset     time.Time
}

// ScopeType selects which feed endpoint the engine polls.
type ScopeType string

// Supported scope types.
const (
	ScopeGlobal ScopeType = "global"
	ScopeOrg    ScopeType = "org"
	ScopeRepo   ScopeType = "repo"
	ScopeUser   ScopeType = "user"
)

// Scope identifies the slice of the feed under observation.
type Scope struct {
	Type  ScopeType
	Value string // empty for ScopeGlobal
}

// Valid reports whether the scope can be translated into a feed endpoint.
func (s Scope) Valid() bool {
	switch s.Type {
	case ScopeGlobal:
		return true
	case ScopeOrg, ScopeUser:
		return s.Value != ""
	case ScopeRepo:
		owner, name, ok := strings.Cut(s.Value, "/")
		return ok && owner != "" && name != ""
	default:
		return false
	}
}
