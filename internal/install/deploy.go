// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DeployResult reports where the archive was placed.
type DeployResult struct {
	Dest  string
	Bytes int64
}

// Deploy copies archivePath into targetDir under the same base name,
// replacing any existing file. Permission bits and the modification time are
// carried over. The copy goes through a temporary file in targetDir so a
// failed deploy never leaves a truncated archive behind.
func Deploy(ctx context.Context, archivePath, targetDir string) (DeployResult, error) {
	dest := filepath.Join(targetDir, filepath.Base(archivePath))
	fail := func(err error) (DeployResult, error) {
		return DeployResult{Dest: dest}, &DeployError{Source: archivePath, Dest: dest, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	info, err := os.Stat(archivePath)
	if err != nil {
		return fail(err)
	}
	if !info.Mode().IsRegular() {
		return fail(fmt.Errorf("%s is not a regular file", archivePath))
	}

	n, err := copyFile(archivePath, dest, info)
	if err != nil {
		return fail(err)
	}
	return DeployResult{Dest: dest, Bytes: n}, nil
}

func copyFile(src, dest string, info os.FileInfo) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".scmtool-deploy-*")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath) // best-effort cleanup
		}
	}()

	if n, err = io.Copy(tmp, in); err != nil {
		return 0, err
	}
	if err = tmp.Close(); err != nil {
		return 0, err
	}
	if err = os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		return 0, err
	}
	if err = os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		return 0, err
	}
	if err = os.Rename(tmpPath, dest); err != nil {
		return 0, err
	}
	return n, nil
}
