// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/selacomods/scmtool/internal/config"
	"github.com/selacomods/scmtool/internal/install"
	"github.com/selacomods/scmtool/internal/issue"
)

func newDeployCommand(app *App, root *rootOptions) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "deploy <archive>",
		Short: "Copy an existing archive into the Mods folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd.Context(), app, root, args[0], target)
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "install directory (default: target_dir config)")
	return cmd
}

func runDeploy(ctx context.Context, app *App, root *rootOptions, archive, target string) error {
	s, err := app.session(ctx, root)
	if err != nil {
		return err
	}
	if target == "" {
		target = s.cfg.TargetDir
	}
	if target, err = config.ExpandPath(target); err != nil {
		return invalidConfigError(s, err)
	}

	res, err := install.Deploy(ctx, archive, target)
	if err != nil {
		app.renderIssue(issue.DeployFailedId, s.cfg.UI.ColorScheme)
		return issue.NewErrorContext().
			WithOperation("deploy archive").
			WithResource(archive).
			WithSuggestion("Make sure Selaco is closed so the old archive is not locked").
			WithSuggestion("Check target_dir with 'scmtool config show'").
			Wrap(err).
			BuildError()
	}

	s.logger.Debug("deployed", "dest", res.Dest, "bytes", res.Bytes)
	newConsoleReporter(app.stdout, s.verbose).printf("%s Deployed to: %s (%s)\n",
		SuccessStyle.Render("[OK]"), res.Dest, formatFileSize(res.Bytes))
	return nil
}
