// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	MissingSourceId Id = iota + 1
	StagingConflictId
	DeployFailedId
	ConfigLoadFailedId
	PatternNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue page with the named glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	missingSourceIssue = &Issue{
		id: MissingSourceId,
		mdMsg: `
# ZScript source not found!

The archive cannot be built without the mod's ZScript file. No archive was produced.

## Things you can try:
- Place ` + "`collectibles_native.zs`" + ` in the directory you run scmtool from
- Or point the config at it:
~~~cue
source_script: "path/to/collectibles_native.zs"
~~~
- Or use an environment override:
~~~
$ SCM_SOURCE_SCRIPT=path/to/collectibles_native.zs scmtool build
~~~`,
	}

	stagingConflictIssue = &Issue{
		id: StagingConflictId,
		mdMsg: `
# Could not prepare the staging directory!

scmtool deletes and recreates its staging directory on every build. Something
prevented that, usually a file held open by an editor or a read-only directory.
The staging directory is also refused when it is, or contains, the working
directory, the output directory, the Mods folder or the ZScript source.

## Things you can try:
- Close any program that has files from the ` + "`build`" + ` directory open
- Choose another staging location:
~~~cue
staging_dir: "/tmp/scm-staging"
~~~`,
	}

	deployFailedIssue = &Issue{
		id: DeployFailedId,
		mdMsg: `
# Deployment failed!

The archive was built but could not be copied into the Selaco Mods folder.

## Common causes:
- Selaco is still running and holds the old archive open
- The Mods folder does not exist yet
- The Steam library lives somewhere else

## Things you can try:
- Copy the archive into the Mods folder manually
- Set the correct target directory:
~~~
$ scmtool config set target_dir "D:/SteamLibrary/steamapps/common/Selaco/Mods"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Configuration file locations:
- Linux: ~/.config/scmtool/config.cue
- macOS: ~/Library/Application Support/scmtool/config.cue
- Windows: %APPDATA%\scmtool\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ scmtool config init
~~~
- Remove the config file to use defaults

## Example configuration:
~~~cue
mod_name:    "SelacoCollectiblesNative"
mod_version: "4.0"
target_dir:  "$HOME/.steam/steam/steamapps/common/Selaco/Mods"
ui: {
  verbose: false
}
~~~`,
	}

	patternNotFoundIssue = &Issue{
		id: PatternNotFoundId,
		mdMsg: `
# Nothing to patch

The source file does not contain the problematic type comparison. This is the
expected result once the file has been fixed, and no file was written.`,
	}

	issues = map[Id]*Issue{
		missingSourceIssue.id:    missingSourceIssue,
		stagingConflictIssue.id:  stagingConflictIssue,
		deployFailedIssue.id:     deployFailedIssue,
		configLoadFailedIssue.id: configLoadFailedIssue,
		patternNotFoundIssue.id:  patternNotFoundIssue,
	}
)

// Values returns all registered issues ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue registered for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
