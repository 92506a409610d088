// SPDX-License-Identifier: MPL-2.0

package pk3

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSource is the sentinel error wrapped by MissingSourceError.
	ErrMissingSource = errors.New("source script not found")
	// ErrStagingConflict is the sentinel error wrapped by StagingConflictError.
	ErrStagingConflict = errors.New("staging directory could not be prepared")
	// ErrUnsafeEntry is returned when a staged path would escape the archive root.
	ErrUnsafeEntry = errors.New("unsafe archive entry")
)

type (
	// MissingSourceError is returned when the ZScript source does not exist.
	// No archive is produced.
	MissingSourceError struct {
		Path string
		Err  error
	}

	// StagingConflictError is returned when the staging directory cannot be
	// cleared or recreated.
	StagingConflictError struct {
		Dir string
		Err error
	}
)

func (e *MissingSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source script %s not found: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("source script %s not found", e.Path)
}

// Unwrap returns ErrMissingSource for errors.Is.
func (e *MissingSourceError) Unwrap() error { return ErrMissingSource }

func (e *StagingConflictError) Error() string {
	return fmt.Sprintf("prepare staging directory %s: %v", e.Dir, e.Err)
}

// Unwrap returns both the sentinel and the filesystem cause.
func (e *StagingConflictError) Unwrap() []error { return []error{ErrStagingConflict, e.Err} }
