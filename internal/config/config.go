// Package config defines engine configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"

	"github.com/okian/sportscast/internal/domain/model"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// GithubToken authenticates feed requests. Optional; unauthenticated
	// sessions simply carry a smaller rate budget.
	GithubToken string `koanf:"github_token"`

	// ScopeType and ScopeValue select the feed slice: global, org,
	// repo (owner/name) or user.
	ScopeType  string `koanf:"scope_type"`
	ScopeValue string `koanf:"scope_value"`

	// EventFilter narrows the visible event log to one kind, or "all".
	EventFilter string `koanf:"event_filter"`

	// PollIntervalSeconds is the user-configured poll speed. The
	// throttle overrides it when the rate budget runs low.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// AutoProtect enables automatic throttle recovery.
	AutoProtect bool `koanf:"auto_protect"`

	// Commentary collaborator settings.
	CommentaryEnabled  bool   `koanf:"commentary_enabled"`
	CommentaryEndpoint string `koanf:"commentary_endpoint"`
	CommentaryKey      string `koanf:"commentary_key"`
	CommentaryModel    string `koanf:"commentary_model"`

	// SpeechEnabled forwards final commentary to the speech sink.
	SpeechEnabled bool `koanf:"speech_enabled"`

	// SettingsPath locates the key-value settings file. Empty keeps
	// settings in memory for the session.
	SettingsPath string `koanf:"settings_path"`

	// MetricsAddr exposes Prometheus metrics when non-empty, e.g.
	// ":9090". This is observability, not a product surface.
	MetricsAddr string `koanf:"metrics_addr"`

	// KindWeights overrides scoring weights per resolved kind.
	KindWeights map[string]int `koanf:"kind_weights"`

	// DefaultKindWeight is used for kinds absent from the table.
	DefaultKindWeight int `koanf:"default_kind_weight"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		ScopeType:           string(model.ScopeGlobal),
		EventFilter:         "all",
		PollIntervalSeconds: 10,
		AutoProtect:         true,
		CommentaryModel:     "gpt-4o-mini",
		MetricsAddr:         "",
		DefaultKindWeight:   1,
	}
}

// Scope assembles the configured feed scope.
func (c *Config) Scope() model.Scope {
	return model.Scope{
		Type:  model.ScopeType(c.ScopeType),
		Value: c.ScopeValue,
	}
}
