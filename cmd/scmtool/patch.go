// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/selacomods/scmtool/internal/config"
	"github.com/selacomods/scmtool/internal/issue"
	"github.com/selacomods/scmtool/internal/patch"
)

const (
	strategyCase  = "case"
	strategyBlock = "block"
)

type patchOptions struct {
	strategy string
	inPlace  bool
	typeName string
	dryRun   bool
	yes      bool
	check    bool
}

func newPatchCommand(app *App, root *rootOptions) *cobra.Command {
	opts := &patchOptions{}

	cmd := &cobra.Command{
		Use:   "patch [file]",
		Short: "Fix type checks the game's ZScript compiler rejects",
		Long: `Fix type checks the game's ZScript compiler rejects.

The default "case" strategy rewrites every mis-cased ` + "`is \"weapon\"`" + ` comparison
to the canonical class name. The "block" strategy replaces the whole weapon
check with a cast-based workaround; its matches are shown for review and
applied only after confirmation unless --yes is given.

Without --in-place the result is written next to the input as <name>_fixed<ext>.
With --in-place the original is kept as <file>.backup.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			return runPatch(cmd.Context(), app, root, file, opts)
		},
	}

	cmd.Flags().StringVar(&opts.strategy, "strategy", strategyCase, "rewrite strategy (case|block)")
	cmd.Flags().BoolVar(&opts.inPlace, "in-place", false, "overwrite the file after writing a .backup copy")
	cmd.Flags().StringVar(&opts.typeName, "type-name", patch.DefaultTypeName, "canonical class name for the case strategy")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "apply block replacements without review")
	cmd.Flags().BoolVar(&opts.check, "check", false, "exit with status 1 if the file needs fixing")

	return cmd
}

func runPatch(ctx context.Context, app *App, root *rootOptions, file string, opts *patchOptions) error {
	s, err := app.session(ctx, root)
	if err != nil {
		return err
	}
	if file == "" {
		file = s.cfg.SourceScript
	}
	if file, err = config.ExpandPath(file); err != nil {
		return err
	}

	strategy, err := newStrategy(opts)
	if err != nil {
		return err
	}
	mode := patch.NewFile
	if opts.inPlace {
		mode = patch.InPlace
	}

	review := strategy.Name() == strategyBlock && !opts.yes
	if opts.check || opts.dryRun || review {
		preview, err := patch.Apply(file, strategy, patch.Options{Mode: mode, DryRun: true})
		if errors.Is(err, patch.ErrPatternNotFound) {
			fmt.Fprintf(app.stdout, "No changes needed: %s\n", file)
			return nil
		}
		if err != nil {
			return issue.WrapWithContext(err, "patch source", file)
		}

		printSpans(app, preview)

		switch {
		case opts.check:
			return &ExitError{Code: 1, Err: fmt.Errorf("%s needs %d fix(es)", file, preview.Fixed)}
		case opts.dryRun:
			return nil
		}

		ok, err := app.Prompter.Confirm(ctx, fmt.Sprintf("Apply %d change(s) to %s? (y/n):", preview.Fixed, filepath.Base(file)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(app.stdout, "Patch not applied.")
			return nil
		}
	}

	res, err := patch.Apply(file, strategy, patch.Options{Mode: mode})
	if errors.Is(err, patch.ErrPatternNotFound) {
		app.renderIssue(issue.PatternNotFoundId, s.cfg.UI.ColorScheme)
		fmt.Fprintf(app.stdout, "No changes needed: %s\n", file)
		return nil
	}
	if err != nil {
		return issue.WrapWithContext(err, "patch source", file)
	}

	s.logger.Debug("patch applied", "strategy", res.Strategy, "fixed", res.Fixed, "output", res.Output)
	fmt.Fprintf(app.stdout, "%s Fixed %d occurrence(s) with the %s strategy\n", SuccessStyle.Render("[OK]"), res.Fixed, res.Strategy)
	if res.Backup != "" {
		fmt.Fprintf(app.stdout, "  Backup: %s\n", res.Backup)
	}
	fmt.Fprintf(app.stdout, "  Output: %s\n", res.Output)
	if mode == patch.NewFile {
		fmt.Fprintf(app.stdout, "\nReplace %s with %s and build again.\n", filepath.Base(file), filepath.Base(res.Output))
	}
	return nil
}

func newStrategy(opts *patchOptions) (patch.Strategy, error) {
	switch opts.strategy {
	case strategyCase:
		return patch.NewCaseNormalizer(opts.typeName), nil
	case strategyBlock:
		return patch.BlockReplacer{}, nil
	default:
		return nil, fmt.Errorf("unknown patch strategy %q (valid: %s, %s)", opts.strategy, strategyCase, strategyBlock)
	}
}

// printSpans lists each match with its line number. Multi-line spans are
// shown in full so the replacement can be reviewed.
func printSpans(app *App, res *patch.Result) {
	for _, sp := range res.Spans {
		fmt.Fprintf(app.stdout, "%s\n", CmdStyle.Render(fmt.Sprintf("line %d:", sp.Line)))
		for _, l := range strings.Split(sp.Original, "\n") {
			fmt.Fprintf(app.stdout, "  %s\n", ErrorStyle.Render("- "+l))
		}
		for _, l := range strings.Split(sp.Replacement, "\n") {
			fmt.Fprintf(app.stdout, "  %s\n", SuccessStyle.Render("+ "+l))
		}
	}
}
