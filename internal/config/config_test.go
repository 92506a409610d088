// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/selacomods/scmtool/internal/install"
	"github.com/selacomods/scmtool/internal/issue"
	"github.com/selacomods/scmtool/pkg/modinfo"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.ModName != "SelacoCollectiblesNative" || cfg.ModVersion != "4.0" {
		t.Errorf("default identity = %s %s", cfg.ModName, cfg.ModVersion)
	}
	if cfg.ArchiveExt != modinfo.ExtPK3 {
		t.Errorf("ArchiveExt = %q, want pk3", cfg.ArchiveExt)
	}
	if cfg.SourceScript != "collectibles_native.zs" {
		t.Errorf("SourceScript = %q", cfg.SourceScript)
	}
	if diff := cmp.Diff(install.DefaultCleanupPatterns, cfg.CleanupPatterns); diff != "" {
		t.Errorf("CleanupPatterns mismatch (-want +got):\n%s", diff)
	}
	if !cfg.UI.Pause || cfg.UI.Verbose || cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI defaults = %+v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}

	// Mutating the copy must not leak into the package default.
	cfg.CleanupPatterns[0] = "changed"
	if install.DefaultCleanupPatterns[0] == "changed" {
		t.Error("DefaultConfig shares the cleanup pattern slice")
	}
}

func TestDefaultTargetDir(t *testing.T) {
	t.Parallel()

	got := DefaultTargetDir()
	if runtime.GOOS == "windows" {
		if got != `C:\Program Files (x86)\Steam\steamapps\common\Selaco\Mods` {
			t.Errorf("DefaultTargetDir() = %q", got)
		}
		return
	}
	if !strings.HasPrefix(got, "$HOME/") || !strings.HasSuffix(got, "Selaco/Mods") {
		t.Errorf("DefaultTargetDir() = %q", got)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Path = %q, want empty", loaded.Path)
	}
	if diff := cmp.Diff(DefaultConfig(), loaded.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := writeConfig(t, dir, `
mod_version: "4.1"
target_dir:  "/games/selaco/Mods"
archive_ext: "zip"
cleanup_patterns: ["old_*.pk3"]
ui: pause: false
`)

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg := loaded.Config
	if loaded.Path != p {
		t.Errorf("Path = %q, want %q", loaded.Path, p)
	}
	if cfg.ModVersion != "4.1" || cfg.TargetDir != "/games/selaco/Mods" || cfg.ArchiveExt != modinfo.ExtZip {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"old_*.pk3"}, cfg.CleanupPatterns); diff != "" {
		t.Errorf("CleanupPatterns mismatch (-want +got):\n%s", diff)
	}
	if cfg.UI.Pause {
		t.Error("ui.pause override not applied")
	}
	if cfg.ModName != DefaultModName || cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("unset keys lost their defaults: %+v", cfg)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Parallel()

	p := writeConfig(t, t.TempDir(), `mod_name: "CustomMod"`)
	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: p, ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Config.ModName != "CustomMod" {
		t.Errorf("ModName = %q", loaded.Config.ModName)
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("Load() error = %v, want *issue.ActionableError", err)
	}
	if ae.Operation != "load configuration" || len(ae.Suggestions) == 0 {
		t.Errorf("ActionableError = %+v", ae)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad extension", content: `archive_ext: "rar"`, want: "archive_ext"},
		{name: "bad version", content: `mod_version: "v4"`, want: "mod_version"},
		{name: "unknown key", content: `target_directory: "/x"`, want: "target_directory"},
		{name: "wrong type", content: `ui: verbose: "yes"`, want: "ui.verbose"},
		{name: "name with separator", content: `mod_name: "a/b"`, want: "mod_name"},
		{name: "syntax", content: `mod_name: "unterminated`, want: "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SCM_TARGET_DIR", "/env/Mods")
	t.Setenv("SCM_UI_VERBOSE", "true")

	dir := t.TempDir()
	writeConfig(t, dir, `target_dir: "/file/Mods"`)

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Config.TargetDir != "/env/Mods" {
		t.Errorf("TargetDir = %q, want env override", loaded.Config.TargetDir)
	}
	if !loaded.Config.UI.Verbose {
		t.Error("SCM_UI_VERBOSE not applied")
	}
}

func TestLoad_EnvOverrideValidated(t *testing.T) {
	t.Setenv("SCM_ARCHIVE_EXT", "rar")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, modinfo.ErrInvalidArchiveExt) {
		t.Errorf("Load() error = %v, want ErrInvalidArchiveExt", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.OutputDir = "dist"
	cfg.TargetDir = `D:\Games\Selaco\Mods`
	cfg.UI.Verbose = true

	dir := t.TempDir()
	p, err := Save(cfg, filepath.Join(dir, "nested", "config.cue"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: p})
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, GenerateCUE(cfg))
	}
	if diff := cmp.Diff(cfg, loaded.Config); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "config.cue")
	got, created, err := CreateDefaultConfig(p)
	if err != nil || !created || got != p {
		t.Fatalf("CreateDefaultConfig() = %q, %v, %v", got, created, err)
	}

	if err := os.WriteFile(p, []byte(`mod_name: "Mine"`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, created, err := CreateDefaultConfig(p); err != nil || created {
		t.Errorf("second CreateDefaultConfig() created=%v err=%v, want existing file kept", created, err)
	}
	data, _ := os.ReadFile(p)
	if string(data) != `mod_name: "Mine"` {
		t.Error("existing config was overwritten")
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	if want := filepath.Join(dir, "config.cue"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("SCM_TEST_ROOT", "/srv/games")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "plain/dir", want: "plain/dir"},
		{in: "$SCM_TEST_ROOT/Mods", want: "/srv/games/Mods"},
		{in: "${SCM_TEST_ROOT}/Mods", want: "/srv/games/Mods"},
		{in: "~/Mods", want: home + "/Mods"},
		{in: `C:\Program Files (x86)\Steam`, want: `C:\Program Files (x86)\Steam`},
		{in: `$SCM_TEST_ROOT\Mods`, want: `/srv/games\Mods`},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Errorf("ExpandPath(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildInfo(t *testing.T) {
	t.Setenv("SCM_TEST_GAME", "/opt/selaco")

	cfg := DefaultConfig()
	cfg.TargetDir = "$SCM_TEST_GAME/Mods"
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	info, err := cfg.BuildInfo(now)
	if err != nil {
		t.Fatalf("BuildInfo() error = %v", err)
	}
	if info.TargetDir != "/opt/selaco/Mods" {
		t.Errorf("TargetDir = %q", info.TargetDir)
	}
	if info.ArchiveName() != "SelacoCollectiblesNative_v4.0.pk3" {
		t.Errorf("ArchiveName() = %q", info.ArchiveName())
	}
	if !info.Timestamp.Equal(now) {
		t.Errorf("Timestamp = %v", info.Timestamp)
	}

	cfg.ModVersion = "four"
	if _, err := cfg.BuildInfo(now); !errors.Is(err, modinfo.ErrInvalidVersion) {
		t.Errorf("BuildInfo() error = %v, want ErrInvalidVersion", err)
	}
}
