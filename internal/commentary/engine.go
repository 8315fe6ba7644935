// Package commentary produces one announcement line per event. It tries
// the remote completion collaborator first and falls back to
// deterministic kind-specific templates; the caller never observes a
// remote fault as an error, only as a substitution.
package commentary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/sportscast/internal/domain/model"
	"github.com/okian/sportscast/internal/domain/types"
	"github.com/okian/sportscast/pkg/logger"
	"github.com/okian/sportscast/pkg/metrics"
)

// Timeouts and prompt bounds.
const (
	generateTimeout     = 10 * time.Second
	connectivityTimeout = 15 * time.Second

	// topRows caps how many leaderboard rows ride along in the prompt.
	topRows = 5

	defaultModelID = "gpt-4o-mini"

	systemPrompt = "You are an excited sportscaster narrating live GitHub activity. " +
		"Answer with a single short line of commentary, no preamble."
)

// keyPattern bounds the credential to a sane character class and length.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._\-]{10,500}$`)

// SpeechSink is the fire-and-forget output port for spoken commentary.
type SpeechSink interface {
	Speak(ctx context.Context, text string) error
}

// Engine generates commentary. Safe for concurrent use; at most one
// remote call is in flight at a time, a second caller short-circuits to
// the fallback rather than queueing.
type Engine struct {
	mu       sync.RWMutex
	enabled  bool
	endpoint string
	key      string
	modelID  string

	client   *http.Client
	inFlight atomic.Bool

	speech SpeechSink
	log    logger.Logger
}

// New constructs an Engine. Without options the remote path is disabled
// and every call renders a template.
func New(opts ...Option) *Engine {
	// No client-level timeout: each call bounds itself via context, and
	// the connectivity test's budget is longer than generation's.
	e := &Engine{
		modelID: defaultModelID,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate returns commentary for the event given the current top of
// the leaderboard. It never returns an error and never returns "".
func (e *Engine) Generate(ctx context.Context, ev model.Event, board []types.Entry) string {
	text := e.tryRemote(ctx, ev, board)
	if text == "" {
		text = renderTemplate(ev)
		metrics.RecordCommentaryFallback()
	} else {
		metrics.RecordCommentaryRemote()
	}

	if e.speech != nil {
		if err := e.speech.Speak(ctx, text); err != nil && e.log != nil {
			e.log.Debug(ctx, "speech sink failed", logger.Error(err))
		}
	}
	return text
}

// SetRemote reconfigures the remote path at runtime. An empty endpoint
// disables it; template generation continues either way.
func (e *Engine) SetRemote(endpoint, key, modelID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.enabled = endpoint != ""
	e.endpoint = endpoint
	e.key = key
	e.modelID = defaultModelID
	if modelID != "" {
		e.modelID = modelID
	}
}

// remote returns a consistent snapshot of the remote configuration.
func (e *Engine) remote() (enabled bool, endpoint, key, modelID string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.enabled, e.endpoint, e.key, e.modelID
}

// tryRemote returns "" whenever the fallback should be used instead.
func (e *Engine) tryRemote(ctx context.Context, ev model.Event, board []types.Entry) string {
	enabled, _, _, _ := e.remote()
	if !enabled || e.Validate() != nil {
		return ""
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		// A call is already running; do not queue behind it.
		return ""
	}
	defer e.inFlight.Store(false)

	text, err := e.complete(ctx, generateTimeout, buildPrompt(ev, board))
	if err != nil {
		if e.log != nil {
			e.log.Warn(ctx, "remote commentary failed, using template", logger.Error(err))
		}
		return ""
	}
	return text
}

// Validate checks the configured endpoint and key formats. It does not
// perform any network I/O.
func (e *Engine) Validate() error {
	_, endpoint, key, _ := e.remote()
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}
	if !keyPattern.MatchString(key) {
		return ErrInvalidKey
	}
	return nil
}

// TestConnection is the explicit connectivity check. Unlike Generate it
// surfaces validation and transport faults to the caller.
func (e *Engine) TestConnection(ctx context.Context) error {
	enabled, _, _, _ := e.remote()
	if !enabled {
		return ErrDisabled
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if _, err := e.complete(ctx, connectivityTimeout, "Say \"on air\"."); err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}
	return nil
}

// completion wire types, chat-completions shaped. Only the first choice
// is consumed.
type completionRequest struct {
	Model     string              `json:"model"`
	MaxTokens int                 `json:"max_tokens"`
	Messages  []completionMessage `json:"messages"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete issues one bounded outbound call. Timeout expiry abandons
// the call; the next scheduled cycle retries naturally.
func (e *Engine) complete(ctx context.Context, timeout time.Duration, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, endpoint, key, modelID := e.remote()
	body, err := json.Marshal(completionRequest{
		Model:     modelID,
		MaxTokens: 120,
		Messages: []completionMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion status %d", resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("blank completion")
	}
	return text, nil
}

// buildPrompt packs the event and the top leaderboard rows into a
// compact user prompt.
func buildPrompt(ev model.Event, board []types.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New event: %s by %s on %s at %s.\n",
		ev.Kind, ev.Actor, ev.Repo, ev.CreatedAt.Format(time.RFC3339))

	if len(board) > 0 {
		b.WriteString("Current leaderboard:\n")
		for i, row := range board {
			if i >= topRows {
				break
			}
			fmt.Fprintf(&b, "%d. %s (score %d, %d events)\n",
				row.Rank, row.Repo, row.Score, row.Events)
		}
	}
	return b.String()
}
