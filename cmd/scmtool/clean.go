// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selacomods/scmtool/internal/config"
	"github.com/selacomods/scmtool/internal/install"
	"github.com/selacomods/scmtool/internal/issue"
)

func newCleanCommand(app *App, root *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove old versions of the mod from the Mods folder",
		Long: `Remove old versions of the mod from the Mods folder.

Files are selected with the cleanup_patterns config key (case-insensitive).
Files that cannot be removed are reported and skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), app, root, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runClean(ctx context.Context, app *App, root *rootOptions, yes bool) error {
	s, err := app.session(ctx, root)
	if err != nil {
		return err
	}
	target, err := config.ExpandPath(s.cfg.TargetDir)
	if err != nil {
		return invalidConfigError(s, err)
	}

	rep := newConsoleReporter(app.stdout, s.verbose)
	if !yes {
		ok, err := app.Prompter.Confirm(ctx, fmt.Sprintf("Remove old versions from %s? (y/n):", target))
		if err != nil {
			return err
		}
		if !ok {
			rep.printf("Nothing removed.\n")
			return nil
		}
	}

	res, err := install.Clean(ctx, target, s.cfg.CleanupPatterns)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("clean old versions").
			WithResource(target).
			WithSuggestion("Check cleanup_patterns with 'scmtool config show'").
			Wrap(err).
			BuildError()
	}
	if res.TargetMissing {
		rep.TargetMissing(target)
		return nil
	}
	rep.Cleaned(res)
	return nil
}
