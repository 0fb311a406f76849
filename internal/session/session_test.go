package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"taskboard/internal/session"
)

func TestFileStore_Missing(t *testing.T) {
	s := session.NewFileStore(filepath.Join(t.TempDir(), "token.json"))

	if _, err := s.Token(); !errors.Is(err, session.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
	if session.HasToken(s) {
		t.Error("expected HasToken to be false")
	}
}

func TestFileStore_SaveAndClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "token.json")
	s := session.NewFileStore(path)

	if err := s.Save(&oauth2.Token{AccessToken: "abc", TokenType: "bearer"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %o", info.Mode().Perm())
	}

	tok, err := s.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if tok.AccessToken != "abc" {
		t.Errorf("expected access token abc, got %q", tok.AccessToken)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file should have been removed")
	}

	// Clearing twice is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	s := session.NewFileStore(path)

	_, err := s.Token()
	if err == nil {
		t.Fatal("expected error for corrupt token file")
	}
	if errors.Is(err, session.ErrNoToken) {
		t.Error("corrupt file should not be reported as missing")
	}
}

func TestFileStore_EmptyAccessToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"token_type":"Bearer"}`), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := session.NewFileStore(path).Token(); !errors.Is(err, session.ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestTokenSource_ReadsStoreEachTime(t *testing.T) {
	store := session.NewMemoryStore("first")
	ts := session.TokenSource(store)

	tok, err := ts.Token()
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "first" || tok.Type() != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}

	_ = store.Save(&oauth2.Token{AccessToken: "second"})
	tok, err = ts.Token()
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "second" {
		t.Errorf("expected refreshed token, got %q", tok.AccessToken)
	}
	if tok.TokenType != "Bearer" {
		t.Errorf("expected default token type Bearer, got %q", tok.TokenType)
	}

	_ = store.Clear()
	if _, err := ts.Token(); !errors.Is(err, session.ErrNoToken) {
		t.Errorf("expected ErrNoToken after clear, got %v", err)
	}
}
