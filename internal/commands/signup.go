package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command. It registers an account but
// does not log in.
type SignupCmd struct {
	authCmd
	name          string
	email         string
	passwordStdin bool
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account" }
func (c *SignupCmd) Usage() string {
	return "taskboard signup [--name <name>] [--email <email>] [--password-stdin]"
}
func (c *SignupCmd) NeedsAuth() bool { return false }

func (c *SignupCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.name, "name", "n", "", "")
	fs.StringVarP(&c.email, "email", "e", "", "")
	fs.BoolVar(&c.passwordStdin, "password-stdin", false, "")
}

// SetAccount sets the name and email flags (for testing).
func (c *SignupCmd) SetAccount(name, email string) {
	c.name, c.email = name, email
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	p := newPrompter(c.in, errOut)
	name, err := ask(p, c.name, "Name: ")
	if err == nil && name == "" {
		err = fmt.Errorf("name required")
	}
	var email string
	if err == nil {
		email, err = ask(p, c.email, "Email: ")
		if err == nil && email == "" {
			err = fmt.Errorf("email required")
		}
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	password, err := p.password("Password: ", c.passwordStdin)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}
	if !c.passwordStdin {
		confirm, err := p.secret("Confirm password: ")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		if confirm != password {
			fmt.Fprintln(errOut, "error: passwords do not match")
			return exitcode.UserError
		}
	}

	store := session.NewFileStore(cfg.TokenPath())
	if err := c.authenticator(cfg, store, errOut).Signup(ctx, name, email, password); err != nil {
		return authFailure(errOut, err)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok (run: taskboard login)")
	}
	return exitcode.Success
}

// ask returns the flag value, or prompts for it when the flag is empty.
func ask(p *prompter, flagValue, label string) (string, error) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, nil
	}
	line, err := p.line(label)
	return strings.TrimSpace(line), err
}
