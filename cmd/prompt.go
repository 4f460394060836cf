// ABOUTME: Interactive prompts for usernames and hidden passwords
// ABOUTME: Falls back to plain line reads when stdin is not a terminal

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	isTerminalFunc   = term.IsTerminal   // mockable
)

// prompter asks questions on out and reads answers from in
type prompter struct {
	in          *bufio.Reader
	out         io.Writer
	fd          int
	interactive bool
}

// newPrompter reads from stdin, writing prompts to w
func newPrompter(in io.Reader, w io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: w, fd: -1}
	if f, ok := in.(*os.File); ok {
		p.fd = int(f.Fd())
		p.interactive = isTerminalFunc(p.fd)
	}
	return p
}

// line reads one trimmed line of visible input
func (p *prompter) line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// secret reads a password without echo when attached to a terminal
func (p *prompter) secret(label string) (string, error) {
	if !p.interactive {
		return p.line(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	pwd, err := readPasswordFunc(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return string(pwd), nil
}

// confirm asks a yes/no question; anything but y or yes is no
func (p *prompter) confirm(question string) bool {
	answer, err := p.line(question + " [y/N]")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
