package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers from in, writing prompts to errOut so stdout
// stays clean.
type prompter struct {
	in     io.Reader
	r      *bufio.Reader
	errOut io.Writer
}

func newPrompter(in io.Reader, errOut io.Writer) *prompter {
	if in == nil {
		in = os.Stdin
	}
	return &prompter{in: in, r: bufio.NewReader(in), errOut: errOut}
}

// line prints label, if any, and reads one line without its terminator.
// End of input reads as an empty answer.
func (p *prompter) line(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.errOut, label)
	}
	s, err := p.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// secret reads a line without echo when in is a terminal.
func (p *prompter) secret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.line(label)
	}
	fmt.Fprint(p.errOut, label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.errOut)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// password reads a password: a bare line when fromStdin is set, a secret
// prompt otherwise.
func (p *prompter) password(label string, fromStdin bool) (string, error) {
	if fromStdin {
		return p.line("")
	}
	return p.secret(label)
}
