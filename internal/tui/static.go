// SPDX-License-Identifier: MPL-2.0

package tui

import "context"

// StaticConfirmer answers every question with Answer and records the
// questions asked and pauses requested.
type StaticConfirmer struct {
	Answer bool
	Err    error
	Asked  []string
	Paused []string
}

// Confirm implements the pipeline confirmer.
func (s *StaticConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	s.Asked = append(s.Asked, question)
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.Answer, s.Err
}

// Pause records message and returns immediately.
func (s *StaticConfirmer) Pause(_ context.Context, message string) error {
	s.Paused = append(s.Paused, message)
	return nil
}
