// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/selacomods/scmtool/internal/content"
	"github.com/selacomods/scmtool/internal/install"
	"github.com/selacomods/scmtool/internal/pk3"
	"github.com/selacomods/scmtool/pkg/modinfo"
)

// ClosedQuestion is asked before anything in the Mods folder is touched.
const ClosedQuestion = "Is Selaco closed? (y/n):"

const (
	// StatusAborted means the user declined; nothing was written.
	StatusAborted Status = iota + 1
	// StatusMissingSource means the ZScript source was not found; nothing was written.
	StatusMissingSource
	// StatusFailed means cleanup, generation or the archive build failed.
	StatusFailed
	// StatusBuilt means the archive was built and deploy was skipped.
	StatusBuilt
	// StatusDeployed means the archive was copied into the target directory.
	StatusDeployed
	// StatusDeployFailed means the archive was built but could not be copied.
	StatusDeployFailed
)

type (
	// Status is the final state of a Run.
	Status int

	// Confirmer asks the user a yes/no question.
	Confirmer interface {
		Confirm(ctx context.Context, question string) (bool, error)
	}

	// ConfirmFunc adapts a function to Confirmer.
	ConfirmFunc func(ctx context.Context, question string) (bool, error)

	// Reporter receives progress events. Implementations print them; none of
	// the methods may fail the run.
	Reporter interface {
		Banner(info modinfo.Info)
		SourceMissing(path string)
		Confirming()
		Aborted()
		TargetMissing(dir string)
		Cleaned(res install.CleanResult)
		Building(info modinfo.Info, assets content.Assets)
		Built(res *pk3.Result)
		Deployed(res install.DeployResult)
		DeployFailed(archive string, err error)
		Failed(err error)
	}

	// Pipeline holds everything one build run needs.
	Pipeline struct {
		info       modinfo.Info
		builder    *pk3.Builder
		confirmer  Confirmer
		reporter   Reporter
		logger     *log.Logger
		patterns   []string
		contentOpt []content.Option
		skipAsk    bool
		skipClean  bool
		skipDeploy bool
	}

	// Option configures a Pipeline.
	Option func(*Pipeline)

	// Outcome summarizes a Run.
	Outcome struct {
		Status  Status
		Clean   *install.CleanResult
		Archive *pk3.Result
		Deploy  *install.DeployResult
		Elapsed time.Duration
	}

	nopReporter struct{}
)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

func (s Status) String() string {
	switch s {
	case StatusAborted:
		return "aborted"
	case StatusMissingSource:
		return "missing source"
	case StatusFailed:
		return "failed"
	case StatusBuilt:
		return "built"
	case StatusDeployed:
		return "deployed"
	case StatusDeployFailed:
		return "deploy failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// WithConfirmer sets who answers ClosedQuestion. Without one the run aborts
// unless WithoutConfirmation is given.
func WithConfirmer(c Confirmer) Option {
	return func(p *Pipeline) { p.confirmer = c }
}

// WithReporter sets the progress sink.
func WithReporter(r Reporter) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.reporter = r
		}
	}
}

// WithLogger attaches a logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithCleanupPatterns replaces install.DefaultCleanupPatterns.
func WithCleanupPatterns(patterns []string) Option {
	return func(p *Pipeline) { p.patterns = patterns }
}

// WithContentOptions forwards options to content.Generate.
func WithContentOptions(opts ...content.Option) Option {
	return func(p *Pipeline) { p.contentOpt = append(p.contentOpt, opts...) }
}

// WithoutConfirmation skips ClosedQuestion.
func WithoutConfirmation() Option {
	return func(p *Pipeline) { p.skipAsk = true }
}

// WithoutClean skips removal of old versions.
func WithoutClean() Option {
	return func(p *Pipeline) { p.skipClean = true }
}

// WithoutDeploy stops after the archive is built.
func WithoutDeploy() Option {
	return func(p *Pipeline) { p.skipDeploy = true }
}

// New creates a Pipeline for info using builder for the archive step.
func New(info modinfo.Info, builder *pk3.Builder, opts ...Option) *Pipeline {
	p := &Pipeline{
		info:     info,
		builder:  builder,
		reporter: nopReporter{},
		logger:   log.New(io.Discard),
		patterns: install.DefaultCleanupPatterns,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.builder == nil {
		p.builder = pk3.NewBuilder(pk3.WithLogger(p.logger))
	}
	return p
}

// Run executes the steps in order. Declining the confirmation or a missing
// source returns before the filesystem is touched. A failed deploy is
// reported in the Outcome and is not an error; failures before it are.
func (p *Pipeline) Run(ctx context.Context) (out Outcome, err error) {
	start := time.Now()
	defer func() { out.Elapsed = time.Since(start) }()

	p.reporter.Banner(p.info)

	if err := checkSource(p.info.ScriptPath); err != nil {
		p.reporter.SourceMissing(p.info.ScriptPath)
		return Outcome{Status: StatusMissingSource}, err
	}

	if !p.skipAsk {
		p.reporter.Confirming()
		ok, err := p.confirm(ctx)
		if err != nil {
			return Outcome{Status: StatusAborted}, err
		}
		if !ok {
			p.reporter.Aborted()
			return Outcome{Status: StatusAborted}, nil
		}
	}

	if !p.skipClean {
		res, err := p.clean(ctx)
		out.Clean = res
		if err != nil {
			return p.fail(out, err)
		}
	}

	assets, err := content.Generate(p.info, p.contentOpt...)
	if err != nil {
		return p.fail(out, fmt.Errorf("generate mod files: %w", err))
	}
	p.reporter.Building(p.info, assets)

	archive, err := p.builder.Build(ctx, p.info, assets)
	if err != nil {
		return p.fail(out, err)
	}
	out.Archive = archive
	p.reporter.Built(archive)

	if p.skipDeploy {
		out.Status = StatusBuilt
		return out, nil
	}

	dep, err := install.Deploy(ctx, archive.Path, p.info.TargetDir)
	out.Deploy = &dep
	if err != nil {
		p.logger.Debug("deploy failed", "archive", archive.Path, "target", p.info.TargetDir, "err", err)
		p.reporter.DeployFailed(archive.Path, err)
		out.Status = StatusDeployFailed
		return out, nil
	}
	p.reporter.Deployed(dep)
	out.Status = StatusDeployed
	return out, nil
}

func (p *Pipeline) confirm(ctx context.Context) (bool, error) {
	if p.confirmer == nil {
		return false, nil
	}
	ok, err := p.confirmer.Confirm(ctx, ClosedQuestion)
	if err != nil {
		return false, fmt.Errorf("confirmation: %w", err)
	}
	return ok, nil
}

func (p *Pipeline) clean(ctx context.Context) (*install.CleanResult, error) {
	res, err := install.Clean(ctx, p.info.TargetDir, p.patterns)
	if err != nil {
		return &res, err
	}
	if res.TargetMissing {
		p.reporter.TargetMissing(p.info.TargetDir)
		return &res, nil
	}
	for _, f := range res.Failures {
		p.logger.Debug("cleanup failure", "path", f.Path, "err", f.Err)
	}
	p.reporter.Cleaned(res)
	return &res, nil
}

func (p *Pipeline) fail(out Outcome, err error) (Outcome, error) {
	p.reporter.Failed(err)
	out.Status = StatusFailed
	return out, err
}

// checkSource stats the script the same way the archive builder does so a
// missing file is caught before the question is asked.
func checkSource(path string) error {
	fi, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &pk3.MissingSourceError{Path: path}
	case err != nil:
		return &pk3.MissingSourceError{Path: path, Err: err}
	case fi.IsDir():
		return &pk3.MissingSourceError{Path: path, Err: errors.New("is a directory")}
	}
	return nil
}

func (nopReporter) Banner(modinfo.Info) {}
func (nopReporter) SourceMissing(string) {}
func (nopReporter) Confirming() {}
func (nopReporter) Aborted() {}
func (nopReporter) TargetMissing(string) {}
func (nopReporter) Cleaned(install.CleanResult) {}
func (nopReporter) Building(modinfo.Info, content.Assets) {}
func (nopReporter) Built(*pk3.Result) {}
func (nopReporter) Deployed(install.DeployResult) {}
func (nopReporter) DeployFailed(string, error) {}
func (nopReporter) Failed(error) {}
