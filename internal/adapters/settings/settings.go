// Package settings is the opaque key-value persistence collaborator.
// The core reads it once at startup and writes on explicit apply/reset;
// it never stores event or leaderboard state.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Keys the engine persists.
const (
	KeyScopeType          = "scope_type"
	KeyScopeValue         = "scope_value"
	KeyEventFilter        = "event_filter"
	KeyCommentaryEndpoint = "commentary_endpoint"
	KeyCommentaryKey      = "commentary_key"
	KeyCommentaryModel    = "commentary_model"
)

// Sentinel kinds for settings errors.
var (
	ErrLoad = errors.New("load settings failed")
	ErrSave = errors.New("save settings failed")
)

// Store provides key-value read/write for user configuration.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
}

// FileStore implements Store on a single JSON file. With an empty path
// it degrades to memory-only, which is what tests use.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStore opens the store, reading the file if it exists. A
// missing file is not an error; a corrupt one is.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		values: make(map[string]string),
	}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}
