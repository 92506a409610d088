// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/selacomods/scmtool/internal/content"
	"github.com/selacomods/scmtool/internal/install"
	"github.com/selacomods/scmtool/internal/issue"
	"github.com/selacomods/scmtool/internal/pk3"
	"github.com/selacomods/scmtool/pkg/modinfo"
)

const rule = "============================================================"

var nativeFeatures = []string{
	"No custom sprites needed",
	"Uses Selaco's built-in graphics",
	"Smaller file size (~50 KB)",
	"Better performance",
	"Perfect visual integration",
}

var installedHighlights = []string{
	"Purple flares for collectibles",
	"Medical crosses for health",
	"Type-specific ammo icons",
	"Color-coded keycards",
	"And more!",
}

// consoleReporter prints pipeline progress for a human at a terminal.
type consoleReporter struct {
	w       io.Writer
	verbose bool
}

func newConsoleReporter(w io.Writer, verbose bool) *consoleReporter {
	return &consoleReporter{w: w, verbose: verbose}
}

func (r *consoleReporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *consoleReporter) Banner(info modinfo.Info) {
	r.printf("%s\n", rule)
	r.printf("%s\n", TitleStyle.Render(fmt.Sprintf("Selaco Collectibles Mod v%s - Native Sprite Edition", info.Version)))
	r.printf("%s\n", rule)
	r.printf("\n%s\n", SubtitleStyle.Render("NATIVE SPRITE VERSION FEATURES:"))
	for _, f := range nativeFeatures {
		r.printf("   • %s\n", f)
	}
	r.printf("%s\n", rule)
}

func (r *consoleReporter) SourceMissing(path string) {
	r.printf("\n%s %s not found!\n", ErrorStyle.Render("[ERROR]"), path)
	r.printf("Place the ZScript file in the working directory or set source_script in the config.\n")
}

func (r *consoleReporter) Confirming() {
	r.printf("\n%s\n\n", WarningStyle.Render("IMPORTANT: Make sure Selaco is CLOSED!"))
}

func (r *consoleReporter) Aborted() {
	r.printf("\nPlease close Selaco first.\n")
}

func (r *consoleReporter) TargetMissing(dir string) {
	r.printf("%s Mods path not found: %s\n", WarningStyle.Render("[WARNING]"), dir)
}

func (r *consoleReporter) Cleaned(res install.CleanResult) {
	r.printf("\nCleaning old versions...\n")
	for _, name := range res.Removed {
		r.printf("  Removed: %s\n", name)
	}
	for _, f := range res.Failures {
		r.printf("  %s Could not remove %s: %v\n", ErrorStyle.Render("[ERROR]"), f.Path, f.Err)
	}
	if len(res.Removed) == 0 {
		r.printf("  No old versions found\n")
	} else {
		r.printf("  Removed %d old version(s)\n", len(res.Removed))
	}
}

func (r *consoleReporter) Building(info modinfo.Info, _ content.Assets) {
	r.printf("\nBuilding %s v%s...\n", info.Name, info.Version)
	r.printf("\nCreating mod files...\n")
}

// Built lists the archive entries, so only files that were actually staged
// and written are reported as created.
func (r *consoleReporter) Built(res *pk3.Result) {
	for _, e := range res.Entries {
		r.printf("  Created: %s\n", e)
	}
	r.printf("\nCreated %s\n", CmdStyle.Render(res.Path))
	if r.verbose {
		r.printf("  %s\n", VerboseStyle.Render("Digest: "+res.Digest.String()))
	}
	r.printf("\nMod size: %s\n", formatFileSize(res.Size))
}

func (r *consoleReporter) Deployed(res install.DeployResult) {
	r.printf("\n%s Deployed to: %s\n", SuccessStyle.Render("[OK]"), res.Dest)
	r.printf("\n%s\n", rule)
	r.printf("%s\n", SuccessStyle.Render("SUCCESS! NATIVE SPRITE VERSION INSTALLED!"))
	r.printf("%s\n", rule)
	r.printf("\nYour collectibles mod now uses Selaco's native sprites:\n")
	for _, h := range installedHighlights {
		r.printf("%s %s\n", SuccessStyle.Render("✓"), h)
	}
	r.printf("\nEnjoy the lightweight, integrated experience!\n")
}

func (r *consoleReporter) DeployFailed(archive string, err error) {
	r.printf("\n%s Deployment failed: %v\n", ErrorStyle.Render("[ERROR]"), err)
	r.printf("\nManually copy %s to your Mods folder.\n", archive)
}

func (r *consoleReporter) Failed(err error) {
	r.printf("\n%s %s\n", ErrorStyle.Render("[ERROR]"), strings.TrimSpace(issue.Format(err, r.verbose)))
}

// formatFileSize formats a byte count as a human-readable string.
func formatFileSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
