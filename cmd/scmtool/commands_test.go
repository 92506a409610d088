// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/selacomods/scmtool/internal/config"
	"github.com/selacomods/scmtool/internal/issue"
	"github.com/selacomods/scmtool/internal/patch"
	"github.com/selacomods/scmtool/internal/testutil"
)

const miscasedScript = `class SCMv2_Handler : EventHandler {
    int Classify(Actor item) {
        if(item is "weapon") return 1;
        if(item is "Weapon") return 2;
        return 0;
    }
}
`

const weaponBlock = `    int GetMarker(Actor item, string className) {
        // Check weapons
        if(item is "Weapon" ||
           className.IndexOf("Shotgun") >= 0) {
            return MARKER_WEAPON;
        }
        return MARKER_NONE;
    }
`

func TestPack_WritesArchiveOnly(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run(t, "pack"); err != nil {
		t.Fatalf("pack error = %v", err)
	}
	assertContains(t, h.stdout.String(), "Created "+h.archive(), "Mod size:")
	if len(testutil.ListDir(t, h.target)) != 0 {
		t.Error("pack must not touch the Mods folder")
	}
	if len(h.prompter.Asked) != 0 {
		t.Errorf("pack asked %v", h.prompter.Asked)
	}
}

func TestPack_MissingSource(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.script = filepath.Join(h.dir, "absent.zs")
	h.writeConfig(t, "")

	err := h.run(t, "pack")
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("pack error = %v, want *issue.ActionableError", err)
	}
	if len(ae.Suggestions) == 0 {
		t.Error("missing source error should carry a suggestion")
	}
	assertContains(t, h.stderr.String(), "ZScript source not found")
}

func TestInspect_ListsEntries(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run(t, "pack"); err != nil {
		t.Fatalf("pack error = %v", err)
	}
	if err := h.run(t, "inspect", h.archive()); err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	assertContains(t, h.stdout.String(),
		"entries: 7",
		"digest: sha256:",
		"  CVARINFO\n",
		"  zscript/collectibles_native.zs\n",
	)
}

func TestInspect_NotAnArchive(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run(t, "inspect", h.script); err == nil {
		t.Error("inspect of a ZScript file should fail")
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		answer  bool
		want    []string
		wantOut string
	}{
		{
			name:    "confirmed",
			args:    []string{"clean"},
			answer:  true,
			want:    []string{"other.pk3"},
			wantOut: "Removed 1 old version(s)",
		},
		{
			name:    "declined",
			args:    []string{"clean"},
			answer:  false,
			want:    []string{"SCM_old.pk3", "other.pk3"},
			wantOut: "Nothing removed.",
		},
		{
			name:    "yes flag",
			args:    []string{"clean", "--yes"},
			want:    []string{"other.pk3"},
			wantOut: "Removed: SCM_old.pk3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			h.prompter.Answer = tt.answer
			testutil.MustWriteFile(t, filepath.Join(h.target, "SCM_old.pk3"), "x")
			testutil.MustWriteFile(t, filepath.Join(h.target, "other.pk3"), "x")

			if err := h.run(t, tt.args...); err != nil {
				t.Fatalf("clean error = %v", err)
			}
			if diff := cmp.Diff(tt.want, testutil.ListDir(t, h.target)); diff != "" {
				t.Errorf("Mods folder mismatch (-want +got):\n%s", diff)
			}
			assertContains(t, h.stdout.String(), tt.wantOut)
		})
	}
}

func TestDeploy(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	archive := testutil.MustWriteFile(t, filepath.Join(h.dir, "SCM_test.pk3"), "archive")

	if err := h.run(t, "deploy", archive); err != nil {
		t.Fatalf("deploy error = %v", err)
	}
	if got := testutil.MustReadFile(t, filepath.Join(h.target, "SCM_test.pk3")); got != "archive" {
		t.Errorf("deployed content = %q", got)
	}

	alt := filepath.Join(h.dir, "alt")
	testutil.MustMkdirAll(t, alt)
	if err := h.run(t, "deploy", archive, "--target", alt); err != nil {
		t.Fatalf("deploy --target error = %v", err)
	}
	if !testutil.Exists(t, filepath.Join(alt, "SCM_test.pk3")) {
		t.Error("--target not honored")
	}

	if err := h.run(t, "deploy", archive, "--target", filepath.Join(h.dir, "absent")); err == nil {
		t.Error("deploy into a missing directory should fail")
	}
	assertContains(t, h.stderr.String(), "Deployment failed")
}

func TestPatch_NewFileByDefault(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	testutil.MustWriteFile(t, h.script, miscasedScript)

	if err := h.run(t, "patch"); err != nil {
		t.Fatalf("patch error = %v", err)
	}
	fixed := testutil.MustReadFile(t, patch.FixedPath(h.script))
	if strings.Contains(fixed, `"weapon"`) {
		t.Errorf("fixed file still mis-cased:\n%s", fixed)
	}
	if testutil.MustReadFile(t, h.script) != miscasedScript {
		t.Error("input modified without --in-place")
	}
	assertContains(t, h.stdout.String(), "Fixed 1 occurrence(s) with the case strategy")
}

func TestPatch_InPlace(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	testutil.MustWriteFile(t, h.script, miscasedScript)

	if err := h.run(t, "patch", "--in-place", h.script); err != nil {
		t.Fatalf("patch error = %v", err)
	}
	if got := testutil.MustReadFile(t, h.script+patch.BackupSuffix); got != miscasedScript {
		t.Error("backup does not hold the original")
	}
	assertContains(t, h.stdout.String(), "Backup: "+h.script+patch.BackupSuffix)
}

func TestPatch_Check(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	testutil.MustWriteFile(t, h.script, miscasedScript)

	err := h.run(t, "patch", "--check")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("patch --check error = %v, want exit code 1", err)
	}
	assertContains(t, h.stdout.String(), "line 3:", `- is "weapon"`, `+ is "Weapon"`)
	if testutil.Exists(t, patch.FixedPath(h.script)) {
		t.Error("--check wrote output")
	}

	clean := newHarness(t)
	if err := clean.run(t, "patch", "--check"); err != nil {
		t.Errorf("patch --check on a clean file error = %v", err)
	}
	assertContains(t, clean.stdout.String(), "No changes needed")
}

func TestPatch_DryRun(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	testutil.MustWriteFile(t, h.script, miscasedScript)

	if err := h.run(t, "patch", "--dry-run", "--in-place"); err != nil {
		t.Fatalf("patch --dry-run error = %v", err)
	}
	if testutil.Exists(t, h.script+patch.BackupSuffix) || testutil.MustReadFile(t, h.script) != miscasedScript {
		t.Error("--dry-run wrote files")
	}
}

func TestPatch_BlockReview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		args      []string
		answer    bool
		wantAsked int
		wantFixed bool
	}{
		{name: "declined", args: []string{"patch", "--strategy", "block"}, answer: false, wantAsked: 1},
		{name: "accepted", args: []string{"patch", "--strategy", "block"}, answer: true, wantAsked: 1, wantFixed: true},
		{name: "yes skips review", args: []string{"patch", "--strategy", "block", "-y"}, wantFixed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			h.prompter.Answer = tt.answer
			testutil.MustWriteFile(t, h.script, weaponBlock)

			if err := h.run(t, tt.args...); err != nil {
				t.Fatalf("patch error = %v", err)
			}
			if len(h.prompter.Asked) != tt.wantAsked {
				t.Errorf("asked %v, want %d question(s)", h.prompter.Asked, tt.wantAsked)
			}
			if got := testutil.Exists(t, patch.FixedPath(h.script)); got != tt.wantFixed {
				t.Errorf("fixed file exists = %v, want %v", got, tt.wantFixed)
			}
		})
	}
}

func TestPatch_UnknownStrategy(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run(t, "patch", "--strategy", "regex"); err == nil || !strings.Contains(err.Error(), "unknown patch strategy") {
		t.Errorf("patch error = %v", err)
	}
}

func TestConfigSet(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run(t, "config", "set", "mod_version", "4.1"); err != nil {
		t.Fatalf("config set error = %v", err)
	}
	assertContains(t, testutil.MustReadFile(t, h.cfgPath), `"4.1"`)

	if err := h.run(t, "pack"); err != nil {
		t.Fatalf("pack error = %v", err)
	}
	if !testutil.Exists(t, filepath.Join(h.output, "SelacoCollectiblesNative_v4.1.pk3")) {
		t.Error("new version not used by pack")
	}
}

func TestConfigSet_UnknownKeySuggests(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	err := h.run(t, "config", "set", "mod_versoin", "4.1")
	if !errors.Is(err, config.ErrUnknownKey) {
		t.Fatalf("config set error = %v, want ErrUnknownKey", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %T, want *issue.ActionableError", err)
	}
	assertContains(t, ae.Format(false), "Did you mean 'mod_version'?", "Valid keys: ")
}

func TestConfigInitAndDump(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cfgPath = filepath.Join(h.dir, "new", "config.cue")

	if err := h.run(t, "config", "init"); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	assertContains(t, h.stdout.String(), "Created default configuration at "+h.cfgPath)

	if err := h.run(t, "config", "init"); err != nil {
		t.Fatalf("second config init error = %v", err)
	}
	assertContains(t, h.stdout.String(), "already exists")

	if err := h.run(t, "config", "dump"); err != nil {
		t.Fatalf("config dump error = %v", err)
	}
	assertContains(t, h.stdout.String(), "mod_name:", `"SelacoCollectiblesNative"`, "cleanup_patterns: [")
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if err := h.run(t, "config", "show"); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	out := h.stdout.String()
	assertContains(t, out, "Config file: "+h.cfgPath, "archive: SelacoCollectiblesNative_v4.0.pk3", "resolved target_dir: "+h.target)
	for _, key := range config.Keys() {
		assertContains(t, out, key+": ")
	}
}

func TestConfigLoadFailureRendersIssue(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cfgPath = filepath.Join(h.dir, "absent.cue")
	if err := h.run(t, "config", "show"); err == nil {
		t.Fatal("an explicit missing config file should fail")
	}
	assertContains(t, h.stderr.String(), "Failed to load configuration")
}
