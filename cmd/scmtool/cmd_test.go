// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/selacomods/scmtool/internal/testutil"
	"github.com/selacomods/scmtool/internal/tui"
)

// harness is a throwaway project: a ZScript source, a Mods folder and a
// config file pointing at both.
type harness struct {
	dir      string
	target   string
	output   string
	staging  string
	script   string
	cfgPath  string
	prompter *tui.StaticConfirmer
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	h := &harness{
		dir:      dir,
		target:   filepath.Join(dir, "Selaco", "Mods"),
		output:   filepath.Join(dir, "out"),
		staging:  filepath.Join(dir, "build"),
		script:   testutil.WriteScript(t, dir),
		cfgPath:  filepath.Join(dir, "config.cue"),
		prompter: &tui.StaticConfirmer{Answer: true},
	}
	testutil.MustMkdirAll(t, h.target)
	testutil.MustMkdirAll(t, h.output)
	h.writeConfig(t, "")
	return h
}

// writeConfig writes the base config followed by extra CUE lines.
func (h *harness) writeConfig(t *testing.T, extra string) {
	t.Helper()
	cfg := fmt.Sprintf(`source_script: %q
target_dir:    %q
staging_dir:   %q
output_dir:    %q
%s
`, h.script, h.target, h.staging, h.output, extra)
	testutil.MustWriteFile(t, h.cfgPath, cfg)
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()

	app, err := NewApp(Dependencies{
		Prompter:   h.prompter,
		Now:        testutil.NewFakeClock(testutil.ReferenceTime).Now,
		IssueStyle: "notty",
		Stdin:      strings.NewReader(""),
		Stdout:     &h.stdout,
		Stderr:     &h.stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	root := NewRootCommand(app)
	root.SetOut(&h.stdout)
	root.SetErr(&h.stderr)
	root.SetArgs(append([]string{"--config", h.cfgPath}, args...))
	return root.ExecuteContext(context.Background())
}

func (h *harness) archive() string {
	return filepath.Join(h.output, "SelacoCollectiblesNative_v4.0.pk3")
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
