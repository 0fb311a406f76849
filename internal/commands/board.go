package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/logging"
	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// boardRun holds a mounted board and the navigator it reports to.
type boardRun struct {
	b   *board.Board
	nav *board.Recorder
}

// newBoard builds a board over svc backed by the token file in cfg.Dir.
func newBoard(cfg *config.Config, svc service.Service, errOut io.Writer) *boardRun {
	nav := &board.Recorder{}
	b := board.New(svc, session.NewFileStore(cfg.TokenPath()), nav,
		board.WithLogger(logging.New(errOut, cfg.Debug)))
	return &boardRun{b: b, nav: nav}
}

// mountBoard builds the board and loads the task list. On failure the error
// has already been reported and the exit code is returned.
func mountBoard(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*boardRun, int) {
	r := newBoard(cfg, svc, errOut)
	if err := r.b.Mount(ctx); err != nil {
		return nil, r.report(errOut, err)
	}
	return r, exitcode.Success
}

// report prints the outcome of a failed board operation and returns the
// exit code. A redirect to the login route always wins over the banner.
func (r *boardRun) report(errOut io.Writer, err error) int {
	if r.nav.Route() == board.RouteLogin {
		if errors.Is(err, board.ErrLoggedOut) {
			fmt.Fprintln(errOut, "error: not logged in (run: taskboard login)")
		} else {
			fmt.Fprintln(errOut, "error: session expired (run: taskboard login)")
		}
		return exitcode.AuthError
	}

	var apiErr *service.APIError
	if !errors.As(err, &apiErr) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	output.Banner(errOut, r.b.Banner())
	return exitcode.For(err)
}

// ok prints the success line unless quiet.
func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// fieldValue is one form field assignment taken from the command line.
type fieldValue struct {
	field board.Field
	value string
}

// setFields applies values in order through set, stopping at the first error.
func setFields(set func(board.Field, string) error, values []fieldValue) error {
	for _, v := range values {
		if err := set(v.field, v.value); err != nil {
			return err
		}
	}
	return nil
}
