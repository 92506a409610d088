// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/selacomods/scmtool/internal/install"
	"github.com/selacomods/scmtool/pkg/modinfo"
)

const (
	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"

	// DefaultModName is the archive prefix of the native collectibles mod.
	DefaultModName modinfo.ModName = "SelacoCollectiblesNative"
	// DefaultModVersion is the version stamped into archives and generated assets.
	DefaultModVersion modinfo.Version = "4.0"
	// DefaultSourceScript is looked up relative to the working directory.
	DefaultSourceScript = "collectibles_native.zs"
	// DefaultStagingDir holds the archive tree while it is being assembled.
	DefaultStagingDir = "build"
	// DefaultZScriptVersion is declared in the generated zscript.txt loader.
	DefaultZScriptVersion = "4.6"

	windowsTargetDir = `C:\Program Files (x86)\Steam\steamapps\common\Selaco\Mods`
	unixTargetDir    = "$HOME/.steam/steam/steamapps/common/Selaco/Mods"
)

// ErrInvalidColorScheme is the sentinel error wrapped by InvalidColorSchemeError.
var ErrInvalidColorScheme = errors.New("invalid color scheme")

type (
	// ColorScheme selects the terminal palette.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme is not one of the known values.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Config holds the scmtool configuration.
	Config struct {
		// ModName prefixes the archive file name.
		ModName modinfo.ModName `json:"mod_name" mapstructure:"mod_name"`
		// ModVersion is dotted numeric, e.g. "4.0".
		ModVersion modinfo.Version `json:"mod_version" mapstructure:"mod_version"`
		// SourceScript is the hand-written ZScript file packaged into the archive.
		SourceScript string `json:"source_script" mapstructure:"source_script"`
		// TargetDir is the game's Mods folder. $VARS and a leading ~ are expanded.
		TargetDir string `json:"target_dir" mapstructure:"target_dir"`
		// ArchiveExt is "pk3" or "zip".
		ArchiveExt modinfo.ArchiveExt `json:"archive_ext" mapstructure:"archive_ext"`
		// StagingDir is recreated for each build and removed afterwards.
		StagingDir string `json:"staging_dir" mapstructure:"staging_dir"`
		// OutputDir receives the built archive. Empty means the working directory.
		OutputDir string `json:"output_dir" mapstructure:"output_dir"`
		// CleanupPatterns select stale archives in TargetDir.
		CleanupPatterns []string `json:"cleanup_patterns" mapstructure:"cleanup_patterns"`
		// ZScriptVersion is declared by the generated loader.
		ZScriptVersion string `json:"zscript_version" mapstructure:"zscript_version"`
		// UI configures terminal behavior.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme ("auto", "dark", "light").
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Pause waits for Enter before an interactive build exits.
		Pause bool `json:"pause" mapstructure:"pause"`
	}
)

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate returns an error unless cs is auto, dark or light.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

func (cs ColorScheme) String() string { return string(cs) }

// DefaultTargetDir returns the stock Steam install location of the Mods folder.
func DefaultTargetDir() string {
	if runtime.GOOS == "windows" {
		return windowsTargetDir
	}
	return unixTargetDir
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ModName:         DefaultModName,
		ModVersion:      DefaultModVersion,
		SourceScript:    DefaultSourceScript,
		TargetDir:       DefaultTargetDir(),
		ArchiveExt:      modinfo.ExtPK3,
		StagingDir:      DefaultStagingDir,
		OutputDir:       "",
		CleanupPatterns: append([]string(nil), install.DefaultCleanupPatterns...),
		ZScriptVersion:  DefaultZScriptVersion,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Pause:       true,
		},
	}
}

// Validate checks fields that CUE does not see, such as values set through
// environment variables. All failures are reported together.
func (c *Config) Validate() error {
	var errs []error
	if err := c.ModName.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.ModVersion.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.ArchiveExt.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.SourceScript == "" {
		errs = append(errs, errors.New("source_script must not be empty"))
	}
	if c.StagingDir == "" {
		errs = append(errs, errors.New("staging_dir must not be empty"))
	}
	return errors.Join(errs...)
}
