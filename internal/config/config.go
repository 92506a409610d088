// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"

	"github.com/selacomods/scmtool/internal/issue"
	"github.com/selacomods/scmtool/pkg/modinfo"
)

const (
	// AppName is the application name.
	AppName = "scmtool"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. SCM_TARGET_DIR.
	EnvPrefix = "SCM"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the scmtool configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DefaultPath returns the config file inside ConfigDir.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// newViper returns a Viper instance with every known key defaulted and
// SCM_ environment overrides enabled.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("mod_name", string(defaults.ModName))
	v.SetDefault("mod_version", string(defaults.ModVersion))
	v.SetDefault("source_script", defaults.SourceScript)
	v.SetDefault("target_dir", defaults.TargetDir)
	v.SetDefault("archive_ext", string(defaults.ArchiveExt))
	v.SetDefault("staging_dir", defaults.StagingDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("cleanup_patterns", defaults.CleanupPatterns)
	v.SetDefault("zscript_version", defaults.ZScriptVersion)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.pause", defaults.UI.Pause)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := newViper()
	resolvedPath := ""

	// An explicit --config path is used exclusively and must exist.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'scmtool config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}
		candidates := []string{
			filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
			ConfigFileName + "." + ConfigFileExt,
		}
		for _, p := range candidates {
			if fileExists(p) {
				resolvedPath = p
				break
			}
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'scmtool config dump' to see a valid configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema.
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check SCM_* environment variables for typos").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. Concrete(false) is used because every
// config field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := checkFileSize(data, maxFileSize, path); err != nil {
		return err
	}

	configMap, err := decodeCUE(data, path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// decodeCUE unifies data with #Config and returns it as a nested map.
func decodeCUE(data []byte, path string) (map[string]any, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, formatCUEError(err, path)
	}
	return configMap, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to path, or to
// DefaultPath when path is empty. An existing file is left alone; the
// returned bool reports whether a file was written.
func CreateDefaultConfig(path string) (string, bool, error) {
	target, err := resolveWritePath(path)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(target); err == nil {
		return target, false, nil
	}
	if err := writeCUE(target, DefaultConfig()); err != nil {
		return "", false, err
	}
	return target, true, nil
}

// Save writes cfg to path, or to DefaultPath when path is empty.
func Save(cfg *Config, path string) (string, error) {
	target, err := resolveWritePath(path)
	if err != nil {
		return "", err
	}
	if err := writeCUE(target, cfg); err != nil {
		return "", err
	}
	return target, nil
}

func resolveWritePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath()
}

func writeCUE(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// scmtool configuration file\n")
	sb.WriteString("// See 'scmtool config --help' for available keys\n\n")

	fmt.Fprintf(&sb, "mod_name:        %q\n", cfg.ModName)
	fmt.Fprintf(&sb, "mod_version:     %q\n", cfg.ModVersion)
	fmt.Fprintf(&sb, "source_script:   %q\n", cfg.SourceScript)
	fmt.Fprintf(&sb, "target_dir:      %q\n", cfg.TargetDir)
	fmt.Fprintf(&sb, "archive_ext:     %q\n", cfg.ArchiveExt)
	fmt.Fprintf(&sb, "staging_dir:     %q\n", cfg.StagingDir)
	if cfg.OutputDir != "" {
		fmt.Fprintf(&sb, "output_dir:      %q\n", cfg.OutputDir)
	}
	fmt.Fprintf(&sb, "zscript_version: %q\n", cfg.ZScriptVersion)

	sb.WriteString("\n// Stale archives removed from target_dir before each build\n")
	sb.WriteString("cleanup_patterns: [")
	if len(cfg.CleanupPatterns) > 0 {
		sb.WriteString("\n")
		for _, p := range cfg.CleanupPatterns {
			fmt.Fprintf(&sb, "\t%q,\n", p)
		}
	}
	sb.WriteString("]\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tpause:        %v\n", cfg.UI.Pause)
	sb.WriteString("}\n")

	return sb.String()
}

// ExpandPath expands $VAR and ${VAR} references and a leading ~ in p.
// Backslashes are kept so Windows paths survive unchanged.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", p, err)
		}
		p = home + p[1:]
	}
	if !strings.Contains(p, "$") {
		return p, nil
	}
	out, err := shell.Expand(strings.ReplaceAll(p, `\`, `\\`), os.Getenv)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	return out, nil
}

// BuildInfo resolves paths and returns the immutable build configuration
// for a run started at now.
func (c *Config) BuildInfo(now time.Time) (modinfo.Info, error) {
	script, err := ExpandPath(c.SourceScript)
	if err != nil {
		return modinfo.Info{}, err
	}
	target, err := ExpandPath(c.TargetDir)
	if err != nil {
		return modinfo.Info{}, err
	}

	info := modinfo.Info{
		Name:       c.ModName,
		Version:    c.ModVersion,
		Ext:        c.ArchiveExt,
		ScriptPath: script,
		TargetDir:  target,
		Timestamp:  now,
	}
	if err := info.Validate(); err != nil {
		return modinfo.Info{}, err
	}
	return info, nil
}

// ResolvedStagingDir returns StagingDir with variables expanded.
func (c *Config) ResolvedStagingDir() (string, error) { return ExpandPath(c.StagingDir) }

// ResolvedOutputDir returns OutputDir with variables expanded.
func (c *Config) ResolvedOutputDir() (string, error) { return ExpandPath(c.OutputDir) }
