// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"

	"github.com/selacomods/scmtool/internal/issue"
	"github.com/selacomods/scmtool/internal/pk3"
)

func newInspectCommand(app *App, root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List the entries of a mod archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), app, args[0])
		},
	}
}

func runInspect(_ context.Context, app *App, archive string) (err error) {
	entries, err := pk3.List(archive)
	if err != nil {
		return issue.WrapWithContext(err, "inspect archive", archive)
	}

	f, err := os.Open(archive)
	if err != nil {
		return issue.WrapWithContext(err, "inspect archive", archive)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	fi, err := f.Stat()
	if err != nil {
		return issue.WrapWithContext(err, "inspect archive", archive)
	}
	dgst, err := digest.FromReader(f)
	if err != nil {
		return issue.WrapWithContext(err, "inspect archive", archive)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render(archive))
	fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("size"), formatFileSize(fi.Size()))
	fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("digest"), dgst)
	fmt.Fprintf(app.stdout, "%s: %d\n", CmdStyle.Render("entries"), len(entries))
	for _, e := range entries {
		fmt.Fprintf(app.stdout, "  %s\n", e)
	}
	return nil
}
