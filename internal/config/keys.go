// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/exp/slices"

	"github.com/selacomods/scmtool/pkg/modinfo"
)

// maxSuggestDistance is the largest edit distance offered as a "did you mean".
const maxSuggestDistance = 3

// ErrUnknownKey is the sentinel error wrapped by UnknownKeyError.
var ErrUnknownKey = errors.New("unknown configuration key")

type (
	// UnknownKeyError is returned by Get and Set for keys the config does not have.
	UnknownKeyError struct {
		Key string
		// Suggestion is the closest known key, if any is close enough.
		Suggestion string
	}

	field struct {
		get func(*Config) string
		set func(*Config, string) error
	}
)

var fields = map[string]field{
	"mod_name": {
		get: func(c *Config) string { return string(c.ModName) },
		set: func(c *Config, v string) error { c.ModName = modinfo.ModName(v); return c.ModName.Validate() },
	},
	"mod_version": {
		get: func(c *Config) string { return string(c.ModVersion) },
		set: func(c *Config, v string) error { c.ModVersion = modinfo.Version(v); return c.ModVersion.Validate() },
	},
	"source_script": {
		get: func(c *Config) string { return c.SourceScript },
		set: func(c *Config, v string) error { c.SourceScript = v; return nonEmpty("source_script", v) },
	},
	"target_dir": {
		get: func(c *Config) string { return c.TargetDir },
		set: func(c *Config, v string) error { c.TargetDir = v; return nil },
	},
	"archive_ext": {
		get: func(c *Config) string { return string(c.ArchiveExt) },
		set: func(c *Config, v string) error {
			c.ArchiveExt = modinfo.ArchiveExt(strings.TrimPrefix(v, "."))
			return c.ArchiveExt.Validate()
		},
	},
	"staging_dir": {
		get: func(c *Config) string { return c.StagingDir },
		set: func(c *Config, v string) error { c.StagingDir = v; return nonEmpty("staging_dir", v) },
	},
	"output_dir": {
		get: func(c *Config) string { return c.OutputDir },
		set: func(c *Config, v string) error { c.OutputDir = v; return nil },
	},
	"cleanup_patterns": {
		get: func(c *Config) string { return strings.Join(c.CleanupPatterns, ",") },
		set: func(c *Config, v string) error { c.CleanupPatterns = splitList(v); return nil },
	},
	"zscript_version": {
		get: func(c *Config) string { return c.ZScriptVersion },
		set: func(c *Config, v string) error { c.ZScriptVersion = v; return nonEmpty("zscript_version", v) },
	},
	"ui.color_scheme": {
		get: func(c *Config) string { return string(c.UI.ColorScheme) },
		set: func(c *Config, v string) error { c.UI.ColorScheme = ColorScheme(v); return c.UI.ColorScheme.Validate() },
	},
	"ui.verbose": {
		get: func(c *Config) string { return strconv.FormatBool(c.UI.Verbose) },
		set: func(c *Config, v string) (err error) { c.UI.Verbose, err = parseBool("ui.verbose", v); return err },
	},
	"ui.pause": {
		get: func(c *Config) string { return strconv.FormatBool(c.UI.Pause) },
		set: func(c *Config, v string) (err error) { c.UI.Pause, err = parseBool("ui.pause", v); return err },
	},
}

func (e *UnknownKeyError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown configuration key %q (did you mean %q?)", e.Key, e.Suggestion)
	}
	return fmt.Sprintf("unknown configuration key %q", e.Key)
}

// Unwrap returns ErrUnknownKey for errors.Is.
func (e *UnknownKeyError) Unwrap() error { return ErrUnknownKey }

// Keys returns every settable key in dotted form, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Get returns the string form of key. Lists are comma separated.
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", unknownKey(key)
	}
	return f.get(c), nil
}

// Set parses value for key and stores it. Lists are comma separated.
func (c *Config) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return unknownKey(key)
	}
	return f.set(c, value)
}

// Suggest returns the known key closest to key, or "" when none is within
// maxSuggestDistance edits.
func Suggest(key string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, k := range Keys() {
		if d := levenshtein.ComputeDistance(key, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func unknownKey(key string) error {
	return &UnknownKeyError{Key: key, Suggestion: Suggest(key)}
}

func nonEmpty(key, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s must not be empty", key)
	}
	return nil
}

func parseBool(key, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: expected true or false, got %q", key, v)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
