// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// ExtPK3 is the archive extension GZDoom-based games load as a mod.
	ExtPK3 ArchiveExt = "pk3"
	// ExtZip produces a plain zip with identical contents.
	ExtZip ArchiveExt = "zip"

	// TimestampLayout is how build times appear inside generated assets.
	TimestampLayout = "2006-01-02 15:04:05"
)

var (
	// ErrInvalidModName is the sentinel error wrapped by InvalidModNameError.
	ErrInvalidModName = errors.New("invalid mod name")
	// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid mod version")
	// ErrInvalidArchiveExt is the sentinel error wrapped by InvalidArchiveExtError.
	ErrInvalidArchiveExt = errors.New("invalid archive extension")
	// ErrInvalidInfo is the sentinel error wrapped by InvalidInfoError.
	ErrInvalidInfo = errors.New("invalid build configuration")

	versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)
)

type (
	// ModName is the mod's identifier; it becomes the archive file name prefix.
	ModName string

	// InvalidModNameError is returned when a ModName is blank or contains path separators.
	InvalidModNameError struct {
		Value ModName
	}

	// Version is a dotted numeric version such as "4.0".
	Version string

	// InvalidVersionError is returned when a Version is not dotted numeric.
	InvalidVersionError struct {
		Value Version
	}

	// ArchiveExt is the extension of the produced archive, without the dot.
	ArchiveExt string

	// InvalidArchiveExtError is returned for extensions other than pk3 and zip.
	InvalidArchiveExtError struct {
		Value ArchiveExt
	}

	// Info is the build configuration. It is created once per process and never mutated.
	Info struct {
		Name    ModName
		Version Version
		// Ext defaults to ExtPK3 when empty.
		Ext ArchiveExt
		// ScriptPath locates the externally supplied ZScript source.
		ScriptPath string
		// TargetDir is the game's Mods folder.
		TargetDir string
		Timestamp time.Time
	}

	// InvalidInfoError collects field-level validation errors of an Info.
	InvalidInfoError struct {
		FieldErrors []error
	}
)

func (e *InvalidModNameError) Error() string {
	return fmt.Sprintf("invalid mod name %q (must be non-empty and contain no path separators)", e.Value)
}

// Unwrap returns ErrInvalidModName for errors.Is.
func (e *InvalidModNameError) Unwrap() error { return ErrInvalidModName }

// Validate returns an error if the name cannot be used as a file name prefix.
func (n ModName) Validate() error {
	s := string(n)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, `/\`) || s != strings.TrimSpace(s) {
		return &InvalidModNameError{Value: n}
	}
	return nil
}

func (n ModName) String() string { return string(n) }

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid mod version %q (expected dotted numbers such as 4.0)", e.Value)
}

// Unwrap returns ErrInvalidVersion for errors.Is.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// Validate returns an error unless v is dotted numeric.
func (v Version) Validate() error {
	if !versionPattern.MatchString(string(v)) {
		return &InvalidVersionError{Value: v}
	}
	return nil
}

func (v Version) String() string { return string(v) }

func (e *InvalidArchiveExtError) Error() string {
	return fmt.Sprintf("invalid archive extension %q (must be %q or %q)", e.Value, ExtPK3, ExtZip)
}

// Unwrap returns ErrInvalidArchiveExt for errors.Is.
func (e *InvalidArchiveExtError) Unwrap() error { return ErrInvalidArchiveExt }

// Validate returns an error for unknown extensions. The zero value is valid.
func (x ArchiveExt) Validate() error {
	switch x {
	case "", ExtPK3, ExtZip:
		return nil
	default:
		return &InvalidArchiveExtError{Value: x}
	}
}

func (e *InvalidInfoError) Error() string {
	return fmt.Sprintf("invalid build configuration: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidInfo followed by every field error, so both the
// aggregate and the field sentinels match with errors.Is.
func (e *InvalidInfoError) Unwrap() []error {
	return append([]error{ErrInvalidInfo}, e.FieldErrors...)
}

// Validate checks every field and reports all failures at once.
func (i Info) Validate() error {
	var errs []error
	if err := i.Name.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := i.Version.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := i.Ext.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(i.ScriptPath) == "" {
		errs = append(errs, errors.New("script path must not be empty"))
	}
	if len(errs) > 0 {
		return &InvalidInfoError{FieldErrors: errs}
	}
	return nil
}

// ArchiveExtOrDefault returns Ext, or ExtPK3 when unset.
func (i Info) ArchiveExtOrDefault() ArchiveExt {
	if i.Ext == "" {
		return ExtPK3
	}
	return i.Ext
}

// ArchiveName returns "{name}_v{version}.{ext}". It depends only on name,
// version and extension.
func (i Info) ArchiveName() string {
	return fmt.Sprintf("%s_v%s.%s", i.Name, i.Version, i.ArchiveExtOrDefault())
}

// ScriptName is the base name of the ZScript source; the archive stores it
// under zscript/ with this name.
func (i Info) ScriptName() string {
	return filepath.Base(i.ScriptPath)
}

// BuiltAt formats the build timestamp with TimestampLayout.
func (i Info) BuiltAt() string {
	return i.Timestamp.Format(TimestampLayout)
}
