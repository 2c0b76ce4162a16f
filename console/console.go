// Package console implements the operator-facing side of interactive mode:
// presenting candidates, reading free-text critique, and signaling
// completion with a terminal bell.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Console reads operator critique from an input stream and presents
// candidates on an output stream. It blocks on input with no timeout.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a console over stdin and stdout.
func New() *Console {
	return NewWith(os.Stdin, os.Stdout)
}

// NewWith creates a console over the given streams. Used by tests.
func NewWith(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Critique presents the candidate and reads one line of operator feedback.
// An EOF or read failure is returned to the caller, which treats it as
// acceptance.
func (c *Console) Critique(taskName, candidate string) (string, error) {
	separator := strings.Repeat("=", 60)
	fmt.Fprintf(c.out, "\n%s\n%s\n%s\n", separator, strings.ToUpper(taskName), separator)
	fmt.Fprintln(c.out, candidate)
	fmt.Fprintf(c.out, "%s\n", separator)
	fmt.Fprintf(c.out, "\nProvide feedback for %s (or type 'good' to finish, 'stop' to end): ",
		strings.ToLower(taskName))

	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// BellNotifier signals completion with the terminal bell character.
type BellNotifier struct {
	out io.Writer
}

// NewBellNotifier creates a notifier writing to stdout.
func NewBellNotifier() *BellNotifier {
	return &BellNotifier{out: os.Stdout}
}

// NewBellNotifierWith creates a notifier writing to out. Used by tests.
func NewBellNotifierWith(out io.Writer) *BellNotifier {
	return &BellNotifier{out: out}
}

// Notify rings the terminal bell.
func (b *BellNotifier) Notify() {
	fmt.Fprint(b.out, "\a")
}
