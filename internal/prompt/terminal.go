package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Terminal asks questions on a line-oriented stream, typically stdin/stdout.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal wires a Terminal reading answers from in and writing questions to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Confirm accepts y or yes (any case); anything else, including EOF, is no.
func (t *Terminal) Confirm(question string) bool {
	fmt.Fprintf(t.out, "%s [y/N]: ", question)
	line, ok := t.readLine()
	if !ok {
		fmt.Fprintln(t.out)
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Prompt returns def for an empty line and cancels on EOF.
func (t *Terminal) Prompt(question, def string) (string, bool) {
	if def != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(t.out, "%s: ", question)
	}
	line, ok := t.readLine()
	if !ok {
		fmt.Fprintln(t.out)
		return "", false
	}
	if line == "" {
		return def, true
	}
	return line, true
}

func (t *Terminal) readLine() (string, bool) {
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", false
	}
	return strings.TrimSpace(line), true
}
