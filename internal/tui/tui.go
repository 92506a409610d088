// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const keyCtrlC = "ctrl+c"

// ErrCancelled is returned when the user dismisses a prompt with Esc or Ctrl+C.
var ErrCancelled = errors.New("user cancelled")

type (
	// Prompter asks questions on a pair of streams. It uses the Bubble Tea
	// confirmation when In is a terminal and a line prompt otherwise. A
	// Prompter is not safe for concurrent use.
	Prompter struct {
		In  io.Reader
		Out io.Writer
		// Plain forces the line prompt even on a terminal.
		Plain bool

		lines *bufio.Reader
		// pending is the read still in flight after a canceled prompt. The
		// next prompt receives its line instead of starting another read.
		pending chan lineResult
	}

	lineResult struct {
		line string
		err  error
	}
)

// NewPrompter creates a Prompter on in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{In: in, Out: out}
}

// IsTerminal reports whether r is an *os.File attached to a terminal.
func IsTerminal(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Confirm asks question and reports whether the answer was yes. In line mode
// only "y" (case-insensitive) is yes; anything else, including end of input,
// is no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if !p.Plain && IsTerminal(p.In) {
		ok, err := Confirm(ctx, ConfirmOptions{Title: question, Input: p.In, Output: p.Out})
		if errors.Is(err, ErrCancelled) {
			return false, nil
		}
		return ok, err
	}

	if _, err := fmt.Fprintf(p.Out, "%s ", question); err != nil {
		return false, err
	}
	line, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	return IsYes(line), nil
}

// Pause prints message and waits for a line on In. End of input returns
// immediately.
func (p *Prompter) Pause(ctx context.Context, message string) error {
	if _, err := fmt.Fprintln(p.Out, message); err != nil {
		return err
	}
	_, err := p.readLine(ctx)
	return err
}

// IsYes reports whether answer is an explicit "y".
func IsYes(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

// readLine reads one line from In. io.EOF yields the partial line and no error.
// At most one read is outstanding: when ctx ends first, the read stays pending
// and the next call waits on it.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if p.lines == nil {
		p.lines = bufio.NewReader(p.In)
	}
	if p.pending == nil {
		done := make(chan lineResult, 1)
		go func(r *bufio.Reader) {
			line, err := r.ReadString('\n')
			if errors.Is(err, io.EOF) {
				err = nil
			}
			done <- lineResult{line: line, err: err}
		}(p.lines)
		p.pending = done
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-p.pending:
		p.pending = nil
		return r.line, r.err
	}
}
