// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/selacomods/scmtool/internal/config"
	"github.com/selacomods/scmtool/internal/issue"
	"github.com/selacomods/scmtool/internal/pipeline"
	"github.com/selacomods/scmtool/internal/pk3"
	"github.com/selacomods/scmtool/internal/tui"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer; every command handler receives an App reference.
	App struct {
		Config   ConfigProvider
		Prompter Prompter
		Now      func() time.Time
		// IssueStyle overrides the glamour style of issue pages when set.
		IssueStyle string
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		Prompter   Prompter
		Now        func() time.Time
		IssueStyle string
		Stdin      io.Reader
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	// Prompter asks yes/no questions and waits for Enter.
	Prompter interface {
		pipeline.Confirmer
		Pause(ctx context.Context, message string) error
	}

	// session is the per-invocation state shared by the subcommands.
	session struct {
		cfg     *config.Config
		path    string
		verbose bool
		logger  *log.Logger
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Prompter == nil {
		deps.Prompter = tui.NewPrompter(deps.Stdin, deps.Stdout)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &App{
		Config:     deps.Config,
		Prompter:   deps.Prompter,
		Now:        deps.Now,
		IssueStyle: deps.IssueStyle,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}, nil
}

// session loads configuration and derives the logger for one command.
func (a *App) session(ctx context.Context, opts *rootOptions) (*session, error) {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.configPath})
	if err != nil {
		a.renderIssue(issue.ConfigLoadFailedId, config.ColorSchemeAuto)
		return nil, err
	}

	cfg := loaded.Config
	applyColorScheme(cfg.UI.ColorScheme)
	verbose := opts.verbose || cfg.UI.Verbose
	logger := newLogger(a.stderr, verbose)
	if loaded.Path != "" {
		logger.Debug("configuration loaded", "path", loaded.Path)
	} else {
		logger.Debug("no config file found, using defaults")
	}

	return &session{cfg: cfg, path: loaded.Path, verbose: verbose, logger: logger}, nil
}

// builder returns an archive builder honoring the staging and output settings.
// A non-empty outputDir flag overrides the configured output directory.
func (s *session) builder(outputDir string) (*pk3.Builder, error) {
	staging, err := s.cfg.ResolvedStagingDir()
	if err != nil {
		return nil, err
	}
	if outputDir == "" {
		if outputDir, err = s.cfg.ResolvedOutputDir(); err != nil {
			return nil, err
		}
	}
	return pk3.NewBuilder(
		pk3.WithStagingDir(staging),
		pk3.WithOutputDir(outputDir),
		pk3.WithLogger(s.logger),
	), nil
}

// renderIssue writes the markdown issue page for id to stderr.
func (a *App) renderIssue(id issue.Id, cs config.ColorScheme) {
	is := issue.Get(id)
	if is == nil {
		return
	}
	style := a.IssueStyle
	if style == "" {
		style = glamourStyle(cs)
	}
	rendered, err := is.Render(style)
	if err != nil {
		return
	}
	fmt.Fprint(a.stderr, rendered)
}
