package commentary

import (
	"net/http"

	"github.com/okian/sportscast/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRemote enables the remote path with the given endpoint, key and
// model identifier. The values are validated at call time, not here:
// a bad endpoint only ever means the fallback is used.
func WithRemote(endpoint, key, modelID string) Option {
	return func(e *Engine) {
		e.enabled = true
		e.endpoint = endpoint
		e.key = key
		if modelID != "" {
			e.modelID = modelID
		}
	}
}

// WithSpeechSink attaches the speech output port. Nil disables speech.
func WithSpeechSink(s SpeechSink) Option {
	return func(e *Engine) {
		e.speech = s
	}
}

// WithHTTPClient replaces the outbound client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) {
		if c != nil {
			e.client = c
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
