// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/selacomods/scmtool/internal/content"
	"github.com/selacomods/scmtool/internal/issue"
	"github.com/selacomods/scmtool/internal/pipeline"
	"github.com/selacomods/scmtool/internal/pk3"
)

// PausePrompt is shown before an interactive build exits.
const PausePrompt = "\nPress Enter to exit..."

type buildOptions struct {
	yes       bool
	noClean   bool
	noDeploy  bool
	noPause   bool
	outputDir string
}

func newBuildCommand(app *App, root *rootOptions) *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the mod archive and install it into the Mods folder",
		Long: `Build the mod archive and install it into the Mods folder.

The build checks that the ZScript source exists, asks whether Selaco is
closed, removes old versions of the mod from the Mods folder, packages the
archive and copies it into place. Failures are reported on the console and
the command still exits successfully, so double-click launches can read them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), app, root, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "do not ask whether Selaco is closed")
	cmd.Flags().BoolVar(&opts.noClean, "no-clean", false, "keep old versions in the Mods folder")
	cmd.Flags().BoolVar(&opts.noDeploy, "no-deploy", false, "build the archive without installing it")
	cmd.Flags().BoolVar(&opts.noPause, "no-pause", false, "exit without waiting for Enter")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for the built archive (default: output_dir config or working directory)")

	return cmd
}

func runBuild(ctx context.Context, app *App, root *rootOptions, opts *buildOptions) error {
	s, err := app.session(ctx, root)
	if err != nil {
		return err
	}

	info, err := s.cfg.BuildInfo(app.Now())
	if err != nil {
		return invalidConfigError(s, err)
	}
	builder, err := s.builder(opts.outputDir)
	if err != nil {
		return invalidConfigError(s, err)
	}

	popts := []pipeline.Option{
		pipeline.WithConfirmer(app.Prompter),
		pipeline.WithReporter(newConsoleReporter(app.stdout, s.verbose)),
		pipeline.WithLogger(s.logger),
		pipeline.WithCleanupPatterns(s.cfg.CleanupPatterns),
		pipeline.WithContentOptions(content.WithZScriptVersion(s.cfg.ZScriptVersion)),
	}
	if opts.yes {
		popts = append(popts, pipeline.WithoutConfirmation())
	}
	if opts.noClean {
		popts = append(popts, pipeline.WithoutClean())
	}
	if opts.noDeploy {
		popts = append(popts, pipeline.WithoutDeploy())
	}

	out, runErr := pipeline.New(info, builder, popts...).Run(ctx)
	s.logger.Debug("build finished", "status", out.Status, "elapsed", out.Elapsed)

	switch {
	case errors.Is(runErr, context.Canceled):
		return runErr
	case errors.Is(runErr, pk3.ErrMissingSource):
		app.renderIssue(issue.MissingSourceId, s.cfg.UI.ColorScheme)
	case errors.Is(runErr, pk3.ErrStagingConflict):
		app.renderIssue(issue.StagingConflictId, s.cfg.UI.ColorScheme)
	case out.Status == pipeline.StatusDeployFailed:
		app.renderIssue(issue.DeployFailedId, s.cfg.UI.ColorScheme)
	}

	if !opts.noPause && s.cfg.UI.Pause {
		if err := app.Prompter.Pause(ctx, PausePrompt); err != nil {
			s.logger.Debug("pause interrupted", "err", err)
		}
	}
	return nil
}

// invalidConfigError wraps a configuration value problem with guidance.
func invalidConfigError(s *session, err error) error {
	resource := s.path
	if resource == "" {
		resource = "(defaults)"
	}
	return issue.NewErrorContext().
		WithOperation("resolve build configuration").
		WithResource(resource).
		WithSuggestion("Run 'scmtool config show' to inspect the effective values").
		WithSuggestion("Fix the value with 'scmtool config set <key> <value>'").
		Wrap(err).
		BuildError()
}
