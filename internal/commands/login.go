package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/oauth2"

	"taskboard/internal/backend/restapi"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// authCmd carries what login and signup share: the authenticator and
// the input the prompts read from.
type authCmd struct {
	auth service.Authenticator
	in   io.Reader
}

// SetAuthenticator replaces the backend authenticator (for testing).
func (c *authCmd) SetAuthenticator(a service.Authenticator) {
	c.auth = a
}

// SetInput replaces stdin as the prompt input (for testing).
func (c *authCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *authCmd) authenticator(cfg *config.Config, store session.Store, errOut io.Writer) service.Authenticator {
	if c.auth != nil {
		return c.auth
	}
	return restapi.New(cfg, store, logging.New(errOut, cfg.Debug))
}

// authFailure reports a failed login or signup call.
func authFailure(errOut io.Writer, err error) int {
	switch code := exitcode.For(err); code {
	case exitcode.AuthError, exitcode.UserError:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return code
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// LoginCmd implements the login command.
type LoginCmd struct {
	authCmd
	email         string
	passwordStdin bool
	force         bool
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in and store the session token" }
func (c *LoginCmd) Usage() string {
	return "taskboard login [--email <email>] [--password-stdin] [--force]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.email, "email", "e", "", "")
	fs.BoolVar(&c.passwordStdin, "password-stdin", false, "")
	fs.BoolVarP(&c.force, "force", "f", false, "")
}

// SetEmail sets the email flag (for testing).
func (c *LoginCmd) SetEmail(email string) {
	c.email = email
}

// SetForce sets the force flag (for testing).
func (c *LoginCmd) SetForce(force bool) {
	c.force = force
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	store := session.NewFileStore(cfg.TokenPath())
	if session.HasToken(store) && !c.force {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	p := newPrompter(c.in, errOut)
	email := strings.TrimSpace(c.email)
	if email == "" {
		line, err := p.line("Email: ")
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		fmt.Fprintln(errOut, "error: email required")
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

	cred, err := c.authenticator(cfg, store, errOut).Login(ctx, email, password)
	if err != nil {
		return authFailure(errOut, err)
	}

	tok := &oauth2.Token{AccessToken: cred.AccessToken, TokenType: cred.TokenType}
	if err := store.Save(tok); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	return ok(cfg, out)
}
