// Package auth owns the OAuth2 session lifecycle: token persistence, code
// exchange, status checks and the request guard for protected routes.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNoToken indicates no token record is persisted.
var ErrNoToken = errors.New("no token record stored")

// Store persists the current session's token record. Implementations must
// serialize writers so a concurrent Read never observes a partial record.
type Store interface {
	Exists() bool
	Read() (*TokenRecord, error)
	Write(rec *TokenRecord) error
	Delete() error
}

// FileStore keeps the token record as a single JSON file. A mutex serializes
// all access; writes go through a temp file and rename so readers only ever
// see a complete record.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Exists reports whether a token record is present on disk.
func (s *FileStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)

	return err == nil
}

// Read loads the persisted token record, returning ErrNoToken if absent.
func (s *FileStore) Read() (*TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile failed: %w", err)
	}

	rec := &TokenRecord{}
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	return rec, nil
}

// Write replaces the stored record wholesale.
func (s *FileStore) Write(rec *TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("json.Marshal failed: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*.json")
	if err != nil {
		return fmt.Errorf("os.CreateTemp failed: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("tmp.Write failed: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("tmp.Chmod failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("tmp.Close failed: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("os.Rename failed: %w", err)
	}

	return nil
}

// Delete removes the stored record. Deleting an absent record is not an error.
func (s *FileStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove failed: %w", err)
	}

	return nil
}
