// SPDX-License-Identifier: MPL-2.0

package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// BackupSuffix is appended to the original file name before an in-place rewrite.
	BackupSuffix = ".backup"
	// FixedSuffix is inserted before the extension when writing a new file.
	FixedSuffix = "_fixed"

	// InPlace overwrites the input after writing a backup copy.
	InPlace Mode = iota
	// NewFile writes <stem>_fixed<ext> and leaves the input untouched.
	NewFile
)

// ErrPatternNotFound means the strategy found nothing to rewrite. No file was written.
var ErrPatternNotFound = errors.New("no matching pattern found")

type (
	// Mode selects where patched output goes.
	Mode int

	// Span is one matched region of the original content.
	Span struct {
		// Line is the 1-based line of the first matched byte.
		Line int
		// Original is the matched text.
		Original string
		// Replacement is the text written in its place.
		Replacement string
	}

	// Rewrite is the in-memory outcome of a strategy.
	Rewrite struct {
		Content []byte
		Spans   []Span
		// Fixed counts the rewritten occurrences.
		Fixed int
	}

	// Strategy computes a Rewrite. It must not touch the filesystem.
	Strategy interface {
		Name() string
		Rewrite(src []byte) Rewrite
	}

	// Options controls Apply.
	Options struct {
		Mode Mode
		// DryRun computes the result without writing anything.
		DryRun bool
	}

	// Result describes an applied patch.
	Result struct {
		Rewrite
		Strategy string
		// Output is the rewritten file; empty on dry runs.
		Output string
		// Backup is the copy of the original, set in InPlace mode.
		Backup string
	}
)

// Apply runs strategy over the file at path. When nothing matches it returns
// ErrPatternNotFound and leaves the filesystem unchanged. In InPlace mode the
// original bytes are written to path+BackupSuffix before path is overwritten.
func Apply(path string, strategy Strategy, opts Options) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rw := strategy.Rewrite(src)
	res := &Result{Rewrite: rw, Strategy: strategy.Name()}
	if rw.Fixed == 0 {
		return res, fmt.Errorf("%s: %w", path, ErrPatternNotFound)
	}
	if opts.DryRun {
		return res, nil
	}

	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	switch opts.Mode {
	case NewFile:
		res.Output = FixedPath(path)
		if err := os.WriteFile(res.Output, rw.Content, perm); err != nil {
			return nil, fmt.Errorf("write %s: %w", res.Output, err)
		}
	default:
		res.Backup = path + BackupSuffix
		if err := os.WriteFile(res.Backup, src, perm); err != nil {
			return nil, fmt.Errorf("write backup %s: %w", res.Backup, err)
		}
		res.Output = path
		if err := os.WriteFile(path, rw.Content, perm); err != nil {
			return nil, fmt.Errorf("write %s (original kept in %s): %w", path, res.Backup, err)
		}
	}
	return res, nil
}

// FixedPath maps dir/name.ext to dir/name_fixed.ext.
func FixedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + FixedSuffix + ext
}

// lineOf returns the 1-based line number of byte offset off in src.
func lineOf(src []byte, off int) int {
	return strings.Count(string(src[:off]), "\n") + 1
}
