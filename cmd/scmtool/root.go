// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for scmtool.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/selacomods/scmtool/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the scmtool command tree on app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "scmtool",
		Short: "Build and install the Selaco Collectibles mod",
		Long: TitleStyle.Render("scmtool") + SubtitleStyle.Render(" - Build and install the Selaco Collectibles mod") + `

scmtool generates the mod's CVARINFO, MENUDEF, loader and text assets,
packages them with the hand-written ZScript source into a .pk3 archive,
removes stale copies from the game's Mods folder and installs the new one.

` + SubtitleStyle.Render("Examples:") + `
  scmtool build             Build and install (asks whether Selaco is closed)
  scmtool pack              Build the archive only
  scmtool patch             Fix mis-cased type checks in the ZScript source
  scmtool config show       Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/scmtool/config.cue)")

	rootCmd.AddCommand(
		newBuildCommand(app, opts),
		newPackCommand(app, opts),
		newCleanCommand(app, opts),
		newDeployCommand(app, opts),
		newInspectCommand(app, opts),
		newPatchCommand(app, opts),
		newConfigCommand(app, opts),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with production dependencies. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// errorHandler prints actionable errors with their suggestions and defers
// everything else to fang.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && len(ae.Suggestions) > 0 {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(false))
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// newLogger returns the diagnostic logger. Debug output is shown only in verbose mode.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "scmtool",
		Level:  level,
	})
}
