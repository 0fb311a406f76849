package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/session"
	"taskboard/internal/testutil"
)

func runAuth(t *testing.T, cmd commands.Command, cfg *config.Config) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func hasToken(cfg *config.Config) bool {
	return session.HasToken(session.NewFileStore(cfg.TokenPath()))
}

func newLogin(auth *testutil.FakeAuthenticator, input string) *commands.LoginCmd {
	cmd := &commands.LoginCmd{}
	cmd.SetAuthenticator(auth)
	cmd.SetInput(strings.NewReader(input))
	return cmd
}

// TestLoginCommand_Success verifies the token is stored after login
func TestLoginCommand_Success(t *testing.T) {
	auth := testutil.NewFakeAuthenticator("fresh-token")
	auth.AddUser("ann@example.com", "s3cret")
	cmd := newLogin(auth, "s3cret\n")
	cmd.SetEmail("ann@example.com")

	cfg := &config.Config{Dir: t.TempDir()}
	stdout, stderr, code := runAuth(t, cmd, cfg)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if !strings.Contains(stderr, "Password: ") {
		t.Errorf("expected password prompt on stderr, got %q", stderr)
	}

	tok, err := session.NewFileStore(cfg.TokenPath()).Token()
	if err != nil {
		t.Fatalf("token not stored: %v", err)
	}
	if tok.AccessToken != "fresh-token" {
		t.Errorf("expected stored token 'fresh-token', got %q", tok.AccessToken)
	}
	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected token mode 0600, got %o", info.Mode().Perm())
	}
}

// TestLoginCommand_PromptsForEmail verifies email and password are read from input
func TestLoginCommand_PromptsForEmail(t *testing.T) {
	auth := testutil.NewFakeAuthenticator("tok")
	auth.AddUser("ann@example.com", "s3cret")
	cmd := newLogin(auth, "ann@example.com\ns3cret\n")

	cfg := &config.Config{Dir: t.TempDir()}
	_, stderr, code := runAuth(t, cmd, cfg)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if !strings.Contains(stderr, "Email: ") {
		t.Errorf("expected email prompt, got %q", stderr)
	}
	if !hasToken(cfg) {
		t.Error("expected token stored")
	}
}

// TestLoginCommand_InvalidCredentials verifies a rejected login stores nothing
func TestLoginCommand_InvalidCredentials(t *testing.T) {
	auth := testutil.NewFakeAuthenticator("tok")
	auth.AddUser("ann@example.com", "s3cret")
	cmd := newLogin(auth, "wrong\n")
	cmd.SetEmail("ann@example.com")

	cfg := &config.Config{Dir: t.TempDir()}
	stdout, stderr, code := runAuth(t, cmd, cfg)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasSuffix(stderr, "error: Invalid credentials\n") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if hasToken(cfg) {
		t.Error("no token should be stored")
	}
}

// TestLoginCommand_BackendError verifies transport failures map to backend errors
func TestLoginCommand_BackendError(t *testing.T) {
	auth := testutil.NewFakeAuthenticator("tok")
	auth.LoginErr = testutil.Failed()
	cmd := newLogin(auth, "pw\n")
	cmd.SetEmail("ann@example.com")

	_, stderr, code := runAuth(t, cmd, &config.Config{Dir: t.TempDir()})

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "error: backend error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// TestLoginCommand_PasswordRequired verifies empty input is refused
func TestLoginCommand_PasswordRequired(t *testing.T) {
	cmd := newLogin(testutil.NewFakeAuthenticator("tok"), "")
	cmd.SetEmail("ann@example.com")

	_, stderr, code := runAuth(t, cmd, &config.Config{Dir: t.TempDir()})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasSuffix(stderr, "error: password required\n") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// TestLoginCommand_AlreadyLoggedIn verifies login is a no-op with a stored token
func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	auth := testutil.NewFakeAuthenticator("other")
	cmd := newLogin(auth, "")
	cfg := newConfig(t, false)

	stdout, _, code := runAuth(t, cmd, cfg)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "already logged in\n" {
		t.Errorf("expected 'already logged in', got %q", stdout)
	}
}

// TestLoginCommand_Force verifies --force replaces a stored token
func TestLoginCommand_Force(t *testing.T) {
	auth := testutil.NewFakeAuthenticator("replacement")
	auth.AddUser("ann@example.com", "pw")
	cmd := newLogin(auth, "pw\n")
	cmd.SetEmail("ann@example.com")
	cmd.SetForce(true)
	cfg := newConfig(t, true)

	stdout, stderr, code := runAuth(t, cmd, cfg)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
	tok, err := session.NewFileStore(cfg.TokenPath()).Token()
	if err != nil || tok.AccessToken != "replacement" {
		t.Errorf("expected replaced token, got %v (%v)", tok, err)
	}
}

// TestSignupCommand_Success verifies signup registers without logging in
func TestSignupCommand_Success(t *testing.T) {
	auth := testutil.NewFakeAuthenticator("tok")
	cmd := &commands.SignupCmd{}
	cmd.SetAuthenticator(auth)
	cmd.SetAccount("Ann", "ann@example.com")
	cmd.SetInput(strings.NewReader("pw\npw\n"))

	cfg := &config.Config{Dir: t.TempDir()}
	stdout, stderr, code := runAuth(t, cmd, cfg)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok (run: taskboard login)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if len(auth.Signups) != 1 || auth.Signups[0] != "ann@example.com" {
		t.Errorf("unexpected signups %v", auth.Signups)
	}
	if hasToken(cfg) {
		t.Error("signup should not store a token")
	}
}

// TestSignupCommand_PasswordMismatch verifies the confirmation must match
func TestSignupCommand_PasswordMismatch(t *testing.T) {
	auth := testutil.NewFakeAuthenticator("tok")
	cmd := &commands.SignupCmd{}
	cmd.SetAuthenticator(auth)
	cmd.SetInput(strings.NewReader("Ann\nann@example.com\npw\nPW\n"))

	_, stderr, code := runAuth(t, cmd, &config.Config{Dir: t.TempDir()})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasSuffix(stderr, "error: passwords do not match\n") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(auth.Signups) != 0 {
		t.Error("nothing should be registered")
	}
}

// TestSignupCommand_Taken verifies the server's message is shown
func TestSignupCommand_Taken(t *testing.T) {
	auth := testutil.NewFakeAuthenticator("tok")
	auth.AddUser("ann@example.com", "old")
	cmd := &commands.SignupCmd{}
	cmd.SetAuthenticator(auth)
	cmd.SetAccount("Ann", "ann@example.com")
	cmd.SetInput(strings.NewReader("pw\npw\n"))

	_, stderr, code := runAuth(t, cmd, &config.Config{Dir: t.TempDir()})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasSuffix(stderr, "error: user already taken\n") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// TestLogoutCommand_RemovesToken verifies logout only removes token.json
func TestLogoutCommand_RemovesToken(t *testing.T) {
	cfg := newConfig(t, false)
	cfgPath := filepath.Join(cfg.Dir, config.ConfigFile)
	if err := os.WriteFile(cfgPath, []byte("api_url: http://example.com\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	stdout, stderr, code := runAuth(t, &commands.LogoutCmd{}, cfg)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(cfgPath); err != nil {
		t.Error("config.yaml should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	stdout, stderr, code := runAuth(t, &commands.LogoutCmd{}, &config.Config{Dir: t.TempDir()})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", stdout)
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	stdout, _, code := runAuth(t, &commands.LogoutCmd{}, &config.Config{Dir: t.TempDir(), Quiet: true})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
}

// TestLogoutCommand_EmptyTokenFile verifies a token file without a token reads as logged out and is removed
func TestLogoutCommand_EmptyTokenFile(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if err := os.WriteFile(cfg.TokenPath(), []byte("{}"), 0o600); err != nil {
		t.Fatalf("failed to write token: %v", err)
	}

	stdout, stderr, code := runAuth(t, &commands.LogoutCmd{}, cfg)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", stdout)
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
}
