// SPDX-License-Identifier: MPL-2.0

package pk3

import (
	"context"
	_ "crypto/sha256" // registers sha256 for go-digest
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/opencontainers/go-digest"
	"golang.org/x/exp/slices"

	"github.com/selacomods/scmtool/internal/content"
	"github.com/selacomods/scmtool/pkg/modinfo"
)

const (
	// DefaultStagingDir is created next to the working directory for each build.
	DefaultStagingDir = "build"
)

type (
	// Builder stages generated assets plus the ZScript source and serializes
	// them into a deflate-compressed archive.
	Builder struct {
		stagingDir string
		outputDir  string
		level      int
		logger     *log.Logger
	}

	// Option configures a Builder.
	Option func(*Builder)

	// Result describes a written archive.
	Result struct {
		// Path is the absolute archive path.
		Path string
		// Size is the archive size in bytes.
		Size int64
		// Digest is the sha256 digest of the archive bytes.
		Digest digest.Digest
		// Entries are the archive entry names in write order.
		Entries []string
	}
)

// WithStagingDir overrides DefaultStagingDir.
func WithStagingDir(dir string) Option {
	return func(b *Builder) {
		if dir != "" {
			b.stagingDir = dir
		}
	}
}

// WithOutputDir sets where the archive is written. Defaults to the working directory.
func WithOutputDir(dir string) Option {
	return func(b *Builder) {
		if dir != "" {
			b.outputDir = dir
		}
	}
}

// WithCompressionLevel sets the flate level (flate.BestSpeed..flate.BestCompression).
func WithCompressionLevel(level int) Option {
	return func(b *Builder) { b.level = level }
}

// WithLogger attaches a logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		stagingDir: DefaultStagingDir,
		outputDir:  ".",
		level:      flate.BestCompression,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// StagingDir returns the staging location used by Build.
func (b *Builder) StagingDir() string { return b.stagingDir }

// Build writes info.ArchiveName() into the output directory. The staging
// directory is removed before Build returns, whatever the outcome.
func (b *Builder) Build(ctx context.Context, info modinfo.Info, assets content.Assets) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build canceled: %w", err)
	}

	script, err := readSource(info.ScriptPath)
	if err != nil {
		return nil, err
	}

	staging, err := filepath.Abs(b.stagingDir)
	if err != nil {
		return nil, &StagingConflictError{Dir: b.stagingDir, Err: err}
	}
	outDir, err := filepath.Abs(b.outputDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output directory: %w", err)
	}
	if err := checkStaging(staging, outDir, info); err != nil {
		return nil, err
	}
	if err := resetDir(staging); err != nil {
		return nil, &StagingConflictError{Dir: staging, Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(staging); rmErr != nil {
			b.logger.Warn("staging directory not removed", "dir", staging, "err", rmErr)
		}
	}()

	for _, a := range assets {
		if err := stage(staging, a.Path, []byte(a.Content)); err != nil {
			return nil, err
		}
		b.logger.Debug("staged asset", "path", a.Path, "bytes", len(a.Content))
	}
	scriptEntry := content.ScriptPath(info.ScriptName())
	if err := stage(staging, scriptEntry, script); err != nil {
		return nil, err
	}
	b.logger.Debug("staged script", "path", scriptEntry, "bytes", len(script))

	archivePath := filepath.Join(outDir, info.ArchiveName())

	res, err := b.serialize(ctx, staging, archivePath, info)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("archive written", "path", res.Path, "size", res.Size, "digest", res.Digest)
	return res, nil
}

// serialize zips every regular file under root into dest. The archive is
// written to a temporary sibling and renamed so dest is never left partial.
func (b *Builder) serialize(ctx context.Context, root, dest string, info modinfo.Info) (res *Result, err error) {
	names, err := collect(root)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".scmtool-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath) // best-effort cleanup of the partial archive
		}
	}()

	digester := digest.Canonical.Digester()
	counter := &countingWriter{}
	zw := zip.NewWriter(io.MultiWriter(tmp, digester.Hash(), counter))
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, b.level)
	})

	for _, name := range names {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("build canceled: %w", err)
		}
		if err = addEntry(zw, root, name, info); err != nil {
			return nil, err
		}
	}

	if err = zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	if err = os.Rename(tmpPath, dest); err != nil {
		return nil, fmt.Errorf("move archive into place: %w", err)
	}

	return &Result{
		Path:    dest,
		Size:    counter.n,
		Digest:  digester.Digest(),
		Entries: names,
	}, nil
}

func addEntry(zw *zip.Writer, root, name string, info modinfo.Info) error {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	if err != nil {
		return fmt.Errorf("read staged file %s: %w", name, err)
	}

	header := &zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	}
	header.SetMode(0o644)
	if !info.Timestamp.IsZero() {
		header.Modified = info.Timestamp
	}

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write archive entry %s: %w", name, err)
	}
	return nil
}

// collect returns the sorted slash-separated paths of regular files under root.
func collect(root string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", p, err)
		}
		name, err := EntryName(rel)
		if err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan staging directory: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// EntryName converts a path relative to the staging root into an archive
// entry name. Absolute paths and parent traversal are rejected.
func EntryName(rel string) (string, error) {
	name := filepath.ToSlash(rel)
	if name == "" || filepath.IsAbs(rel) || path.IsAbs(name) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("%w: %q", ErrUnsafeEntry, rel)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || clean != name {
		return "", fmt.Errorf("%w: %q", ErrUnsafeEntry, rel)
	}
	return clean, nil
}

func stage(root, name string, data []byte) error {
	entry, err := EntryName(name)
	if err != nil {
		return err
	}
	dest := filepath.Join(root, filepath.FromSlash(entry))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create staging directory for %s: %w", entry, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("stage %s: %w", entry, err)
	}
	return nil
}

func readSource(p string) ([]byte, error) {
	fi, err := os.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &MissingSourceError{Path: p}
	case err != nil:
		return nil, &MissingSourceError{Path: p, Err: err}
	case fi.IsDir():
		return nil, &MissingSourceError{Path: p, Err: errors.New("is a directory")}
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read source script: %w", err)
	}
	return data, nil
}

// checkStaging rejects a staging directory that equals or contains the working
// directory, the output directory, the target directory or the source script,
// since Build deletes the staging tree before and after every run.
func checkStaging(staging, outDir string, info modinfo.Info) error {
	protected := []string{outDir, filepath.Dir(info.ScriptPath)}
	if info.TargetDir != "" {
		protected = append(protected, info.TargetDir)
	}
	if wd, err := os.Getwd(); err == nil {
		protected = append(protected, wd)
	}

	root := canonical(staging)
	for _, p := range protected {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if contains(root, canonical(abs)) {
			return &StagingConflictError{
				Dir: staging,
				Err: fmt.Errorf("staging directory would delete %s", abs),
			}
		}
	}
	return nil
}

// canonical resolves symlinks when p exists so equal directories compare equal.
func canonical(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}

// contains reports whether p is dir or lies beneath it.
func contains(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// resetDir deletes dir entirely and recreates it empty.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
