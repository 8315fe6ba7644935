package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"

	"github.com/okian/sportscast/internal/domain/model"
	"github.com/okian/sportscast/pkg/logger"
)

// perPage is the upstream page size ceiling.
const perPage = 100

// GitHubSource fetches activity pages from the GitHub events API with
// conditional-request semantics.
type GitHubSource struct {
	client *github.Client
	log    logger.Logger
}

// GitHubOption applies a configuration option to the GitHubSource.
type GitHubOption func(*GitHubSource)

// WithToken authenticates requests with a personal access token.
// Unauthenticated clients work but carry a much smaller rate budget.
func WithToken(token string) GitHubOption {
	return func(g *GitHubSource) {
		if token != "" {
			g.client = g.client.WithAuthToken(token)
		}
	}
}

// WithGitHubHTTPClient replaces the underlying transport, for tests.
func WithGitHubHTTPClient(c *http.Client) GitHubOption {
	return func(g *GitHubSource) {
		if c != nil {
			g.client = github.NewClient(c)
		}
	}
}

// WithGitHubLogger sets a custom logger for the source.
func WithGitHubLogger(l logger.Logger) GitHubOption {
	return func(g *GitHubSource) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGitHubSource creates a feed source backed by the GitHub API.
func NewGitHubSource(opts ...GitHubOption) *GitHubSource {
	g := &GitHubSource{
		client: github.NewClient(nil),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// endpointFor translates a scope into the matching events listing path.
func endpointFor(scope model.Scope) (string, error) {
	switch scope.Type {
	case model.ScopeGlobal:
		return "events", nil
	case model.ScopeOrg:
		return fmt.Sprintf("orgs/%s/events", scope.Value), nil
	case model.ScopeRepo:
		return fmt.Sprintf("repos/%s/events", scope.Value), nil
	case model.ScopeUser:
		return fmt.Sprintf("users/%s/events", scope.Value), nil
	default:
		return "", ErrInvalidScope
	}
}

// rateExhausted reports whether the fetch error is the collaborator
// refusing for lack of budget, and extracts the budget it reported.
func rateExhausted(err error, resp *github.Response) (*model.RateBudget, bool) {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &model.RateBudget{
			Remaining: rateErr.Rate.Remaining,
			Limit:     rateErr.Rate.Limit,
			Reset:     rateErr.Rate.Reset.Time,
		}, true
	}
	if resp != nil && resp.StatusCode == http.StatusForbidden &&
		resp.Rate.Limit > 0 && resp.Rate.Remaining == 0 {
		return &model.RateBudget{
			Remaining: resp.Rate.Remaining,
			Limit:     resp.Rate.Limit,
			Reset:     resp.Rate.Reset.Time,
		}, true
	}
	return nil, false
}

// Fetch retrieves one page of events. A 304 comes back as a successful
// empty page with NotModified set; a rate-exhausted refusal as a
// successful empty page carrying the zero-remaining budget.
func (g *GitHubSource) Fetch(ctx context.Context, scope model.Scope, token string) (Page, error) {
	if !scope.Valid() {
		return Page{}, ErrInvalidScope
	}
	path, err := endpointFor(scope)
	if err != nil {
		return Page{}, err
	}

	req, err := g.client.NewRequest(http.MethodGet, fmt.Sprintf("%s?per_page=%d", path, perPage), nil)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if token != "" {
		req.Header.Set("If-None-Match", token)
	}

	var raw []*github.Event
	resp, err := g.client.Do(ctx, req, &raw)

	var page Page
	if resp != nil {
		page.Token = resp.Header.Get("ETag")
		if resp.Rate.Limit > 0 {
			page.Budget = &model.RateBudget{
				Remaining: resp.Rate.Remaining,
				Limit:     resp.Rate.Limit,
				Reset:     resp.Rate.Reset.Time,
			}
		}
		if resp.StatusCode == http.StatusNotModified {
			page.NotModified = true
			if page.Token == "" {
				page.Token = token
			}
			return page, nil
		}
	}
	if err != nil {
		if budget, ok := rateExhausted(err, resp); ok {
			// An exhausted budget is a threshold, not a fault. Surface it
			// as a successful empty page carrying the budget so the
			// scheduler throttles instead of counting a failure.
			if page.Budget == nil {
				page.Budget = budget
			}
			if page.Token == "" {
				page.Token = token
			}
			if g.log != nil {
				g.log.Warn(ctx, "rate budget exhausted",
					logger.Int("remaining", page.Budget.Remaining),
					logger.Int("limit", page.Budget.Limit))
			}
			return page, nil
		}
		return Page{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	page.Items = make([]model.RawItem, 0, len(raw))
	for _, ev := range raw {
		item := model.RawItem{
			ID:        ev.GetID(),
			Repo:      ev.GetRepo().GetName(),
			Type:      ev.GetType(),
			Actor:     ev.GetActor().GetLogin(),
			CreatedAt: ev.GetCreatedAt().Time,
		}
		if ev.RawPayload != nil {
			item.Payload = *ev.RawPayload
		}
		page.Items = append(page.Items, item)
	}

	if g.log != nil {
		g.log.Debug(ctx, "fetched feed page",
			logger.String("scope", string(scope.Type)),
			logger.Int("items", len(page.Items)))
	}
	return page, nil
}
