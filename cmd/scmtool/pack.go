// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/selacomods/scmtool/internal/content"
	"github.com/selacomods/scmtool/internal/issue"
	"github.com/selacomods/scmtool/internal/pk3"
)

func newPackCommand(app *App, root *rootOptions) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Build the mod archive without touching the Mods folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd.Context(), app, root, outputDir)
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the built archive")
	return cmd
}

func runPack(ctx context.Context, app *App, root *rootOptions, outputDir string) error {
	s, err := app.session(ctx, root)
	if err != nil {
		return err
	}

	info, err := s.cfg.BuildInfo(app.Now())
	if err != nil {
		return invalidConfigError(s, err)
	}
	builder, err := s.builder(outputDir)
	if err != nil {
		return invalidConfigError(s, err)
	}

	assets, err := content.Generate(info, content.WithZScriptVersion(s.cfg.ZScriptVersion))
	if err != nil {
		return fmt.Errorf("generate mod files: %w", err)
	}

	rep := newConsoleReporter(app.stdout, s.verbose)
	rep.Building(info, assets)

	res, err := builder.Build(ctx, info, assets)
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("build archive").
			WithResource(info.ArchiveName()).
			Wrap(err)
		switch {
		case errors.Is(err, pk3.ErrMissingSource):
			app.renderIssue(issue.MissingSourceId, s.cfg.UI.ColorScheme)
			ec.WithSuggestion("Set source_script to the location of " + info.ScriptName())
		case errors.Is(err, pk3.ErrStagingConflict):
			app.renderIssue(issue.StagingConflictId, s.cfg.UI.ColorScheme)
			ec.WithSuggestion("Choose another staging_dir or remove the file in the way")
		}
		return ec.BuildError()
	}

	rep.Built(res)
	return nil
}
