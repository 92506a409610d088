// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultCleanupPatterns match every archive name the mod has shipped under.
var DefaultCleanupPatterns = []string{
	"*CollectiblesMod*.pk3",
	"*collectibles*.pk3",
	"*CollectiblesNative*.pk3",
	"SCM*.pk3",
}

// CleanResult reports what Clean did.
type CleanResult struct {
	// TargetMissing is set when the directory does not exist; nothing was scanned.
	TargetMissing bool
	// Removed holds the base names of deleted files in removal order.
	Removed []string
	// Failures holds one CleanupError per file that could not be deleted.
	Failures []*CleanupError
}

// Clean deletes the regular files directly inside dir whose names match any
// pattern. Matching is case-insensitive, as it is on the Windows filesystems
// the game runs on. A failed removal is recorded and the scan continues.
// A missing dir is not an error.
func Clean(ctx context.Context, dir string, patterns []string) (CleanResult, error) {
	var res CleanResult

	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
		if !doublestar.ValidatePattern(lowered[i]) {
			return res, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
	}

	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		res.TargetMissing = true
		return res, nil
	case err != nil:
		return res, fmt.Errorf("read target directory: %w", err)
	}

	for _, pattern := range lowered {
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return res, fmt.Errorf("cleanup canceled: %w", err)
			}
			if !entry.Type().IsRegular() || res.seen(entry.Name()) {
				continue
			}
			// Pattern validity was checked above, so Match cannot fail here.
			if ok, _ := doublestar.Match(pattern, strings.ToLower(entry.Name())); !ok {
				continue
			}
			p := filepath.Join(dir, entry.Name())
			if err := os.Remove(p); err != nil {
				res.Failures = append(res.Failures, &CleanupError{Path: p, Err: err})
				continue
			}
			res.Removed = append(res.Removed, entry.Name())
		}
	}

	return res, nil
}

// seen reports whether name was already handled by an earlier pattern.
func (r *CleanResult) seen(name string) bool {
	for _, n := range r.Removed {
		if n == name {
			return true
		}
	}
	for _, f := range r.Failures {
		if filepath.Base(f.Path) == name {
			return true
		}
	}
	return false
}
