// Package feed provides the upstream activity feed collaborators: the
// real GitHub-backed source and the local demo synthesizer.
package feed

import (
	"context"

	"github.com/okian/sportscast/internal/domain/model"
)

// Page is one fetched page of feed items plus the response metadata the
// core consumes.
type Page struct {
	Items []model.RawItem

	// Budget is nil when the response carried no budget metadata; the
	// caller retains its previous values in that case.
	Budget *model.RateBudget

	// Token is the conditional-request token to carry into the next
	// fetch. Empty when the response carried none.
	Token string

	// NotModified marks the cheap "nothing changed" outcome. It is a
	// success that produces zero items, not an error.
	NotModified bool
}

// Source fetches one page of activity for a scope.
type Source interface {
	// Fetch retrieves up to one page of items. token is the
	// conditional-request token from the previous fetch, empty for none.
	Fetch(ctx context.Context, scope model.Scope, token string) (Page, error)
}
