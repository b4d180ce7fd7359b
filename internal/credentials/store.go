// Package credentials maps opaque API keys to the human-readable name of
// the submitter that owns them. Keys live in a JSON file of the form:
//
//	{"api_keys": [{"key": "...", "name": "...", "enabled": true}]}
//
// Entries missing a key or name are dropped, as are entries with
// "enabled": false. The file is read once at startup and again on Reload.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	sharedlogger "github.com/hemi-ncsa-dt/nagios-passive-receiver/internal/shared/logger"
)

// ConfigError reports a structurally malformed key file. The store keeps
// serving the previous mapping when Load returns one.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid API keys file %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

type keyEntry struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Enabled *bool  `json:"enabled"`
}

type keyFile struct {
	APIKeys []keyEntry `json:"api_keys"`
}

// Store holds the key-to-submitter mapping. Lookup is safe to call
// concurrently with Reload; the mapping is replaced in one swap under the
// lock so a lookup never observes a half-loaded file.
type Store struct {
	path   string
	logger sharedlogger.Logger

	mu   sync.RWMutex
	keys map[string]string
}

// NewStore creates a store for the given key file. Call Load before use.
func NewStore(logger sharedlogger.Logger, path string) *Store {
	return &Store{
		path:   path,
		logger: logger,
		keys:   map[string]string{},
	}
}

// Load reads the key file and swaps in the parsed mapping. A missing file
// is a warning and leaves the current mapping in place; a malformed file is
// an error and also leaves the current mapping in place. The new mapping is
// built in a scratch map first so a parse failure can never mix old and new
// entries.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("API keys file not found", "path", s.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read API keys file %s: %w", s.path, err)
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return &ConfigError{Path: s.path, Err: err}
	}

	next := make(map[string]string, len(kf.APIKeys))
	for _, entry := range kf.APIKeys {
		if entry.Enabled != nil && !*entry.Enabled {
			continue
		}
		if entry.Key == "" || entry.Name == "" {
			continue
		}
		next[entry.Key] = entry.Name
	}

	s.mu.Lock()
	s.keys = next
	s.mu.Unlock()

	s.logger.Info("Loaded API keys", "count", len(next), "path", s.path)
	return nil
}

// Reload re-reads the key file. On failure the previous mapping stays
// active.
func (s *Store) Reload() error {
	s.logger.Info("Reloading API keys", "path", s.path)
	return s.Load()
}

// Lookup resolves an API key to its submitter name.
func (s *Store) Lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.keys[key]
	return name, ok
}

// Len reports how many keys are currently loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}
