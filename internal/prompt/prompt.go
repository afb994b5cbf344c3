// Package prompt asks the operator yes/no questions on the terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Prompter asks a yes/no question and returns the answer, or def when the
// operator just presses enter.
type Prompter interface {
	Confirm(ctx context.Context, question string, def bool) (bool, error)
}

var (
	markStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	questionStyle = lipgloss.NewStyle().Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// Terminal reads answers line by line from in and writes prompts to out.
type Terminal struct {
	mu      sync.Mutex
	reader  *bufio.Reader
	out     io.Writer
	pending chan line
}

var _ Prompter = (*Terminal)(nil)

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(in), out: out}
}

type line struct {
	text string
	err  error
}

// Confirm repeats the question until the answer is empty, yes or no. End of
// input selects the default.
func (t *Terminal) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}

	for {
		fmt.Fprintf(t.out, "%s %s %s ", markStyle.Render("?"), questionStyle.Render(question), hintStyle.Render(hint))

		l, err := t.readLine(ctx)
		if err != nil {
			fmt.Fprintln(t.out)
			return def, err
		}

		if errors.Is(l.err, io.EOF) {
			answer, ok := parseAnswer(l.text, def)
			if !ok {
				answer = def
			}
			fmt.Fprintln(t.out)
			fmt.Fprintln(t.out, answerStyle.Render(yesNo(answer)))
			return answer, nil
		}
		if l.err != nil {
			return def, fmt.Errorf("failed to read answer: %w", l.err)
		}

		if answer, ok := parseAnswer(l.text, def); ok {
			fmt.Fprintln(t.out, answerStyle.Render(yesNo(answer)))
			return answer, nil
		}
	}
}

// readLine waits for the next line of input. A read abandoned by a cancelled
// context is picked up by the next call.
func (t *Terminal) readLine(ctx context.Context) (line, error) {
	if t.pending == nil {
		t.pending = make(chan line, 1)
		go func(ch chan<- line) {
			text, err := t.reader.ReadString('\n')
			ch <- line{text: text, err: err}
		}(t.pending)
	}

	select {
	case <-ctx.Done():
		return line{}, ctx.Err()
	case l := <-t.pending:
		t.pending = nil
		return l, nil
	}
}

func parseAnswer(text string, def bool) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "":
		return def, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return def, false
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Defaults answers every question with its default. It backs unattended
// runs.
type Defaults struct{}

var _ Prompter = Defaults{}

func (Defaults) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	return def, nil
}
