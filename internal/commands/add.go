package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// addFlags are the create form fields other than the title.
type addFlags struct {
	description string
	due         string
	status      string
}

func (f *addFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.description, "description", "d", "", "")
	fs.StringVar(&f.due, "due", "", "")
	fs.StringVarP(&f.status, "status", "s", "", "")
}

// AddCmd implements the add command.
type AddCmd struct {
	flags addFlags
}

// SetFields sets the description, due date and status (for testing).
func (c *AddCmd) SetFields(description, due, status string) {
	c.flags = addFlags{description: description, due: due, status: status}
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskboard add [--description <text>] [--due <YYYY-MM-DD>] [--status <status>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) { c.flags.register(fs) }

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.flags, args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	flags addFlags
}

func (c *CreateCmd) Name() string      { return "create" }
func (c *CreateCmd) Aliases() []string { return nil }
func (c *CreateCmd) Synopsis() string  { return "Create a task (alias for add)" }
func (c *CreateCmd) Usage() string {
	return "taskboard create [--description <text>] [--due <YYYY-MM-DD>] [--status <status>] <title...>"
}
func (c *CreateCmd) NeedsAuth() bool { return true }

func (c *CreateCmd) RegisterFlags(fs *pflag.FlagSet) { c.flags.register(fs) }

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.flags, args, out, errOut)
}

// runAdd is the shared implementation for add and create commands.
func runAdd(ctx context.Context, cfg *config.Config, svc service.Service, flags addFlags, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	r, code := mountBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	values := []fieldValue{
		{board.FieldTitle, title},
		{board.FieldDescription, flags.description},
		{board.FieldDueDate, flags.due},
	}
	if flags.status != "" {
		values = append(values, fieldValue{board.FieldStatus, flags.status})
	}
	if err := setFields(r.b.SetDraftField, values); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := r.b.Create(ctx); err != nil {
		return r.report(errOut, err)
	}
	return ok(cfg, out)
}
