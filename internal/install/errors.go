// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
)

var (
	// ErrCleanupFailure is the sentinel error wrapped by CleanupError.
	ErrCleanupFailure = errors.New("old version could not be removed")
	// ErrDeployFailure is the sentinel error wrapped by DeployError.
	ErrDeployFailure = errors.New("archive could not be deployed")
	// ErrInvalidPattern is returned for malformed cleanup glob patterns.
	ErrInvalidPattern = errors.New("invalid cleanup pattern")
)

type (
	// CleanupError records one file that Clean could not remove.
	CleanupError struct {
		Path string
		Err  error
	}

	// DeployError is returned when the archive cannot be copied into the target directory.
	DeployError struct {
		Source string
		Dest   string
		Err    error
	}
)

func (e *CleanupError) Error() string {
	return fmt.Sprintf("remove %s: %v", e.Path, e.Err)
}

// Unwrap returns both the sentinel and the filesystem cause.
func (e *CleanupError) Unwrap() []error { return []error{ErrCleanupFailure, e.Err} }

func (e *DeployError) Error() string {
	return fmt.Sprintf("deploy %s to %s: %v", e.Source, e.Dest, e.Err)
}

// Unwrap returns both the sentinel and the filesystem cause.
func (e *DeployError) Unwrap() []error { return []error{ErrDeployFailure, e.Err} }
