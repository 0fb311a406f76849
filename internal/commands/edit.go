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
	Register(&EditCmd{})
}

// optionalString is a string flag that remembers whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }
func (o *optionalString) Type() string   { return "string" }

func (o *optionalString) Set(s string) error {
	o.value, o.set = s, true
	return nil
}

// EditCmd implements the edit command. Only the fields given on the
// command line change; the rest keep their current values.
type EditCmd struct {
	fields [board.FieldStatus + 1]optionalString
}

// SetField sets a field change (for testing).
func (c *EditCmd) SetField(field board.Field, value string) {
	c.fields[field].Set(value)
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change a task" }
func (c *EditCmd) Usage() string {
	return "taskboard edit [--title <text>] [--description <text>] [--due <YYYY-MM-DD|none>] [--status <status>] <id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fields = [board.FieldStatus + 1]optionalString{}
	fs.VarP(&c.fields[board.FieldTitle], "title", "t", "")
	fs.VarP(&c.fields[board.FieldDescription], "description", "d", "")
	fs.Var(&c.fields[board.FieldDueDate], "due", "")
	fs.VarP(&c.fields[board.FieldStatus], "status", "s", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var values []fieldValue
	for f := range c.fields {
		if !c.fields[f].set {
			continue
		}
		value := c.fields[f].value
		if board.Field(f) == board.FieldDueDate && strings.EqualFold(strings.TrimSpace(value), "none") {
			value = ""
		}
		values = append(values, fieldValue{board.Field(f), value})
	}
	if len(values) == 0 {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	return runEdit(ctx, cfg, svc, id, values, out, errOut)
}

// runEdit opens task id for editing, applies values and saves. It is
// shared by edit and done.
func runEdit(ctx context.Context, cfg *config.Config, svc service.Service, id int64, values []fieldValue, out, errOut io.Writer) int {
	r, code := mountBoard(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}

	if _, err := r.b.StartEdit(id); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := setFields(r.b.SetEditField, values); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := r.b.SaveEdit(ctx); err != nil {
		return r.report(errOut, err)
	}
	return ok(cfg, out)
}
