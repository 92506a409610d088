// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPrompter_LineMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "  Y  \n", want: true},
		{input: "y", want: true},
		{input: "yes\n", want: false},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader(tt.input), &out)

		got, err := p.Confirm(context.Background(), "Is Selaco closed? (y/n):")
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if out.String() != "Is Selaco closed? (y/n): " {
			t.Errorf("prompt output = %q", out.String())
		}
	}
}

func TestPrompter_SharesBufferedInput(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("y\n\n"), &out)

	ok, err := p.Confirm(context.Background(), "Continue?")
	if err != nil || !ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
	if err := p.Pause(context.Background(), "Press Enter to exit..."); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if !strings.Contains(out.String(), "Press Enter to exit...\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestPrompter_ContextCanceled(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPrompter(r, io.Discard).Confirm(ctx, "Continue?")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Confirm() error = %v, want context.Canceled", err)
	}
}

func TestPrompter_PromptAfterCancelReusesPendingRead(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })
	p := NewPrompter(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Confirm(ctx, "Continue?"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Confirm() error = %v, want context.Canceled", err)
	}

	go func() { _, _ = io.WriteString(w, "y\nrest\n") }()

	ok, err := p.Confirm(context.Background(), "Continue?")
	if err != nil || !ok {
		t.Fatalf("Confirm() after cancel = %v, %v, want true", ok, err)
	}
	if err := p.Pause(context.Background(), "Press Enter"); err != nil {
		t.Errorf("Pause() error = %v", err)
	}
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	if IsTerminal(strings.NewReader("")) {
		t.Error("a strings.Reader is never a terminal")
	}
}

func TestStaticConfirmer(t *testing.T) {
	t.Parallel()

	s := &StaticConfirmer{Answer: true}
	ok, err := s.Confirm(context.Background(), "Is Selaco closed?")
	if err != nil || !ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
	if len(s.Asked) != 1 || s.Asked[0] != "Is Selaco closed?" {
		t.Errorf("Asked = %v", s.Asked)
	}
}
