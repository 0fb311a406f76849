// Package session stores the bearer credential that identifies the
// logged-in user to the task API.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned when no session token is stored.
var ErrNoToken = errors.New("not logged in")

// Store reads, writes, and clears the session token.
type Store interface {
	// Token returns the stored token, or ErrNoToken.
	Token() (*oauth2.Token, error)

	// Save replaces the stored token.
	Save(tok *oauth2.Token) error

	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// HasToken reports whether s currently holds a usable token.
func HasToken(s Store) bool {
	tok, err := s.Token()
	return err == nil && tok.AccessToken != ""
}

// FileStore keeps the token as JSON in a single file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the token file path.
func (s *FileStore) Path() string { return s.path }

// Token implements Store.
func (s *FileStore) Token() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", s.path, err)
	}
	if tok.AccessToken == "" {
		return nil, ErrNoToken
	}
	return &tok, nil
}

// Save implements Store. The parent directory is created with mode 0700
// and the file written with mode 0600.
func (s *FileStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store, used by tests and embedders that
// manage persistence themselves.
type MemoryStore struct {
	mu  sync.RWMutex
	tok *oauth2.Token
}

// NewMemoryStore returns a store holding accessToken, or an empty store
// when accessToken is "".
func NewMemoryStore(accessToken string) *MemoryStore {
	s := &MemoryStore{}
	if accessToken != "" {
		s.tok = &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	}
	return s
}

// Token implements Store.
func (s *MemoryStore) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tok == nil {
		return nil, ErrNoToken
	}
	tok := *s.tok
	return &tok, nil
}

// Save implements Store.
func (s *MemoryStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tok
	s.tok = &cp
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = nil
	return nil
}
