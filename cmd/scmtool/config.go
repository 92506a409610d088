// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selacomods/scmtool/internal/config"
	"github.com/selacomods/scmtool/internal/issue"
)

// newConfigCommand creates the `scmtool config` command tree.
func newConfigCommand(app *App, root *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage scmtool configuration",
		Long: `Manage scmtool configuration.

Configuration is stored in:
  - Linux: ~/.config/scmtool/config.cue
  - macOS: ~/Library/Application Support/scmtool/config.cue
  - Windows: %APPDATA%\scmtool\config.cue

A config.cue in the working directory is used when the file above is absent.
Every key can be overridden with an SCM_ environment variable, for example
SCM_TARGET_DIR or SCM_UI_PAUSE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, root)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, root)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd.Context(), app, root)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: "Set a configuration value and save it to the config file.\n\nKeys: " +
			joinKeys() + "\n\nList values (cleanup_patterns) are comma separated.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, root, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context(), root)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, root *rootOptions) error {
	s, err := app.session(ctx, root)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)
	if s.path != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Config file"), s.path)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	for _, key := range config.Keys() {
		value, _ := s.cfg.Get(key) // every listed key is known
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render(key), SuccessStyle.Render(value))
	}

	if info, err := s.cfg.BuildInfo(app.Now()); err == nil {
		fmt.Fprintln(app.stdout)
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("archive"), info.ArchiveName())
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("resolved target_dir"), info.TargetDir)
	}
	return nil
}

func initConfig(app *App, root *rootOptions) error {
	path, created, err := config.CreateDefaultConfig(root.configPath)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(ctx context.Context, app *App, root *rootOptions) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Config directory: %s\n", dir)

	loaded, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: root.configPath})
	if err == nil && loaded.Path != "" {
		fmt.Fprintf(app.stdout, "Config file: %s\n", loaded.Path)
		return nil
	}
	path, err := writablePath(root)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "Config file: %s %s\n", path, SubtitleStyle.Render("(not created)"))
	return nil
}

func setConfigValue(ctx context.Context, app *App, root *rootOptions, key, value string) error {
	path, cfg, err := editableConfig(ctx, app, root)
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		ec := issue.NewErrorContext().
			WithOperation("set configuration value").
			WithResource(key).
			Wrap(err)
		var uke *config.UnknownKeyError
		if errors.As(err, &uke) && uke.Suggestion != "" {
			ec.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", uke.Suggestion))
		}
		ec.WithSuggestion("Valid keys: " + joinKeys())
		return ec.BuildError()
	}

	if _, err := config.Save(cfg, path); err != nil {
		return err
	}
	stored, _ := cfg.Get(key)
	fmt.Fprintf(app.stdout, "%s Set %s = %s in %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(key), stored, path)
	return nil
}

// editableConfig returns the file set writes to and its current values. An
// explicit --config file that does not exist yet starts from defaults. Without
// --config the file in use is edited, or the per-user file is created.
func editableConfig(ctx context.Context, app *App, root *rootOptions) (string, *config.Config, error) {
	if root.configPath != "" {
		_, err := os.Stat(root.configPath)
		if errors.Is(err, fs.ErrNotExist) {
			return root.configPath, config.DefaultConfig(), nil
		}
		if err != nil {
			return "", nil, err
		}
	}

	loaded, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: root.configPath})
	if err != nil {
		return "", nil, err
	}
	path := loaded.Path
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return "", nil, err
		}
	}
	return path, loaded.Config, nil
}

// writablePath returns the --config path or the per-user default.
func writablePath(root *rootOptions) (string, error) {
	if root.configPath != "" {
		return root.configPath, nil
	}
	return config.DefaultPath()
}

func joinKeys() string {
	return strings.Join(config.Keys(), ", ")
}
