package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when the user submits an empty answer.
var ErrEmptyInput = errors.New("input must not be empty")

// Prompter reads answers from an input stream and writes prompts to out.
type Prompter struct {
	in  *bufio.Reader
	fd  int
	tty bool
	out io.Writer
}

// NewPrompter reads from stdin and prompts on stderr.
func NewPrompter() *Prompter {
	fd := int(os.Stdin.Fd())
	return &Prompter{
		in:  bufio.NewReader(os.Stdin),
		fd:  fd,
		tty: term.IsTerminal(fd),
		out: os.Stderr,
	}
}

// newPrompterFrom builds a non-interactive Prompter over r.
func newPrompterFrom(r io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), fd: -1, out: out}
}

// Interactive reports whether input comes from a terminal.
func (p *Prompter) Interactive() bool { return p.tty }

// Line prompts for a single visible line. Surrounding whitespace is trimmed.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ErrEmptyInput
	}
	return line, nil
}

// Secret prompts for a value without echo when stdin is a terminal.
// Input from pipes is read as a plain line.
func (p *Prompter) Secret(label string) (string, error) {
	if !p.tty {
		return p.Line(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", ErrEmptyInput
	}
	return string(b), nil
}
