// SPDX-License-Identifier: MPL-2.0

package install

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeArchive(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o640); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDeploy_CopiesAndPreservesMetadata(t *testing.T) {
	t.Parallel()

	src := writeArchive(t, t.TempDir(), "SelacoCollectiblesNative_v4.0.pk3", []byte("PK\x03\x04archive"))
	mtime := time.Date(2024, 12, 24, 18, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	target := t.TempDir()

	res, err := Deploy(context.Background(), src, target)
	if err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}
	if res.Dest != filepath.Join(target, "SelacoCollectiblesNative_v4.0.pk3") {
		t.Errorf("Dest = %q", res.Dest)
	}

	fi, err := os.Stat(res.Dest)
	if err != nil {
		t.Fatal(err)
	}
	if !fi.ModTime().Equal(mtime) {
		t.Errorf("ModTime = %v, want %v", fi.ModTime(), mtime)
	}
	if res.Bytes != fi.Size() {
		t.Errorf("Bytes = %d, size = %d", res.Bytes, fi.Size())
	}
}

func TestDeploy_OverwriteIdempotent(t *testing.T) {
	t.Parallel()

	data := []byte("new archive bytes")
	src := writeArchive(t, t.TempDir(), "SCM.pk3", data)
	target := t.TempDir()
	writeArchive(t, target, "SCM.pk3", []byte("stale"))

	for i := range 2 {
		if _, err := Deploy(context.Background(), src, target); err != nil {
			t.Fatalf("Deploy() run %d error = %v", i+1, err)
		}
	}

	got, err := os.ReadFile(filepath.Join(target, "SCM.pk3"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("deployed content = %q, want %q", got, data)
	}

	leftovers, _ := filepath.Glob(filepath.Join(target, ".scmtool-deploy-*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestDeploy_MissingTargetDir(t *testing.T) {
	t.Parallel()

	src := writeArchive(t, t.TempDir(), "SCM.pk3", []byte("x"))

	_, err := Deploy(context.Background(), src, filepath.Join(t.TempDir(), "Mods"))
	if !errors.Is(err, ErrDeployFailure) {
		t.Fatalf("Deploy() error = %v, want ErrDeployFailure", err)
	}
	var de *DeployError
	if !errors.As(err, &de) || de.Source != src {
		t.Errorf("error = %#v, want *DeployError for %s", err, src)
	}
}

func TestDeploy_MissingArchive(t *testing.T) {
	t.Parallel()

	_, err := Deploy(context.Background(), filepath.Join(t.TempDir(), "none.pk3"), t.TempDir())
	if !errors.Is(err, ErrDeployFailure) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Deploy() error = %v, want ErrDeployFailure wrapping os.ErrNotExist", err)
	}
}
