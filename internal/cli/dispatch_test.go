package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"taskboard/internal/cli"
	"taskboard/internal/commands"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

// loggedInDir returns a config directory holding a session token.
func loggedInDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}
	if err := session.NewFileStore(cfg.TokenPath()).Save(&oauth2.Token{AccessToken: "tok"}); err != nil {
		t.Fatalf("failed to write token: %v", err)
	}
	return dir
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, stderr, code := run(t, dispatcher, "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !bytes.Contains([]byte(stdout), []byte("Usage:")) {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, stderr, code := run(t, dispatcher, "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskboard 0.1.0\n" {
		t.Errorf("expected 'taskboard 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: --unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "add", "Buy milk", "--due")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: --due\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, _, code := run(t, dispatcher, "done", "--help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Usage: taskboard done <id>\n" {
		t.Errorf("unexpected usage output %q", stdout)
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "Call bank"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	_, stderr, code := run(t, dispatcher)

	// No token in the fresh XDG dir.
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: taskboard login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.ListCalls != 0 {
		t.Errorf("expected no fetch, got %d", svc.ListCalls)
	}
}

func TestDispatcher_ListLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "Call bank"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	stdout, stderr, code := run(t, dispatcher, "list", "--config", loggedInDir(t))

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "   1  [Pending]      Call bank\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestDispatcher_FlagsAfterArguments(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	stdout, stderr, code := run(t, dispatcher,
		"add", "Buy", "milk", "--due", "2024-06-30", "-s", "doing", "--quiet", "--config", loggedInDir(t))

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected quiet output, got %q", stdout)
	}
	if len(svc.Created) != 1 {
		t.Fatalf("expected 1 create call, got %d", len(svc.Created))
	}
	in := svc.Created[0]
	if in.Title != "Buy milk" || in.Status != service.StatusInProgress || in.DueDate == nil {
		t.Errorf("unexpected create payload: %+v", in)
	}
}

func TestDispatcher_EditFlags(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{Title: "Call bank", Description: "card"})
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	dir := loggedInDir(t)

	if _, stderr, code := run(t, dispatcher, "edit", "1", "--title", "Call the bank", "--config", dir); code != exitcode.Success {
		t.Fatalf("edit failed with %d: %q", code, stderr)
	}
	got, _ := svc.Get(1)
	if got.Title != "Call the bank" || got.Description != "card" {
		t.Errorf("unexpected task after edit: %+v", got)
	}

	// Flags from the previous run must not leak into the next one.
	_, stderr, code := run(t, dispatcher, "edit", "1", "--config", dir)
	if code != exitcode.UserError || stderr != "error: nothing to change\n" {
		t.Errorf("expected 'nothing to change', got %d %q", code, stderr)
	}
}

func TestDispatcher_PreflightWithoutFactory(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)

	_, stderr, code := run(t, dispatcher, "list", "--config", t.TempDir())

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: taskboard login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_PreflightEmptyTokenFile(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, nil)
	dir := t.TempDir()
	writeFile(t, dir, config.TokenFile, "{}")

	_, stderr, code := run(t, dispatcher, "list", "--config", dir)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: taskboard login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FactoryUnauthorized(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, testutil.Unauthorized()
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	_, stderr, code := run(t, dispatcher, "list", "--config", loggedInDir(t))

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: auth error: Invalid token\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_InvalidConfigFile(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))
	dir := loggedInDir(t)
	writeFile(t, dir, config.ConfigFile, "api_url: [unclosed\n")

	_, stderr, code := run(t, dispatcher, "list", "--config", dir)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !bytes.HasPrefix([]byte(stderr), []byte("error: invalid config.yaml")) {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}
