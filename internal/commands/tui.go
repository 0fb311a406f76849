package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/tui"
)

// debugLogFile receives debug logs while the board owns the terminal.
const debugLogFile = "debug.log"

func init() {
	Register(&TUICmd{})
}

// logSetter is implemented by services that log requests, such as the
// REST client.
type logSetter interface {
	SetLogger(log *slog.Logger)
}

// openDebugLog returns the logger used while the board owns the terminal
// and points svc at it too. The returned func must be called when the board exits.
func openDebugLog(cfg *config.Config, svc service.Service) (*slog.Logger, func(), error) {
	logOut := io.Discard
	closeLog := func() {}
	if cfg.Debug {
		f, err := os.OpenFile(filepath.Join(cfg.Dir, debugLogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, err
		}
		logOut = f
		closeLog = func() { f.Close() }
	}
	log := logging.New(logOut, cfg.Debug)
	if s, ok := svc.(logSetter); ok {
		s.SetLogger(log)
	}
	return log, closeLog, nil
}

// TUICmd implements the tui command.
type TUICmd struct{}

func (c *TUICmd) Name() string      { return "tui" }
func (c *TUICmd) Aliases() []string { return []string{"board"} }
func (c *TUICmd) Synopsis() string  { return "Open the interactive board" }
func (c *TUICmd) Usage() string     { return "taskboard tui" }
func (c *TUICmd) NeedsAuth() bool   { return true }

func (c *TUICmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *TUICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	log, closeLog, err := openDebugLog(cfg, svc)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to open debug log: %v\n", err)
		return exitcode.UserError
	}
	defer closeLog()

	nav := &board.Recorder{}
	b := board.New(svc, session.NewFileStore(cfg.TokenPath()), nav,
		board.WithLogger(log))
	r := &boardRun{b: b, nav: nav}
	if err := b.Guard(); err != nil {
		return r.report(errOut, err)
	}

	model := tui.New(ctx, b, svc, nav)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(out), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if model.LoggedOut() {
		return ok(cfg, out)
	}
	if nav.Route() == board.RouteLogin {
		return r.report(errOut, service.ErrUnauthorized)
	}
	return exitcode.Success
}
