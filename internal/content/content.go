// SPDX-License-Identifier: MPL-2.0

package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path"
	"text/template"

	"github.com/selacomods/scmtool/pkg/modinfo"
)

const (
	// PathSettings is the CVar declaration file.
	PathSettings = "CVARINFO"
	// PathMenu is the options menu declaration file.
	PathMenu = "MENUDEF"
	// PathLoader is the ZScript loader stub.
	PathLoader = "zscript.txt"
	// PathEventHandlers registers the mod's event handler.
	PathEventHandlers = "mapinfo.txt"
	// PathLanguage is the English localization table.
	PathLanguage = "language.enu"
	// PathReadme is the documentation shipped in the archive.
	PathReadme = "readme.txt"
	// ScriptDir holds the externally supplied ZScript source inside the archive.
	ScriptDir = "zscript"

	// DefaultZScriptVersion is the language version declared by the loader stub.
	DefaultZScriptVersion = "4.6"
	// DefaultEventHandler is the handler class registered in mapinfo.txt.
	DefaultEventHandler = "SCMv2_Handler"
	// DefaultLocale is the language lump tag.
	DefaultLocale = "enu"
)

var (
	// ErrUnboundControl is returned when a menu control references an undeclared setting.
	ErrUnboundControl = errors.New("menu control bound to undeclared setting")
	// ErrDuplicateSetting is returned when two settings share a name.
	ErrDuplicateSetting = errors.New("duplicate setting")

	//go:embed templates/*.tmpl
	templateFS embed.FS

	templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))
)

type (
	// Asset is one generated file, addressed by its slash-separated archive path.
	Asset struct {
		Path    string
		Content string
	}

	// Assets is the ordered result of Generate.
	Assets []Asset

	// Option customizes Generate.
	Option func(*options)

	options struct {
		settings       []Setting
		menu           Menu
		strings        []LocalizedString
		zscriptVersion string
		eventHandler   string
		locale         string
	}

	// templateData is what every template sees.
	templateData struct {
		Info           modinfo.Info
		ArchiveName    string
		BuiltAt        string
		Settings       []Setting
		Menu           Menu
		Strings        []LocalizedString
		Locale         string
		ZScriptVersion string
		ScriptInclude  string
		EventHandler   string
	}
)

// WithSettings replaces DefaultSettings.
func WithSettings(s []Setting) Option {
	return func(o *options) { o.settings = s }
}

// WithMenu replaces DefaultMenu.
func WithMenu(m Menu) Option {
	return func(o *options) { o.menu = m }
}

// WithZScriptVersion overrides the version declared in the loader stub.
func WithZScriptVersion(v string) Option {
	return func(o *options) {
		if v != "" {
			o.zscriptVersion = v
		}
	}
}

// WithEventHandler overrides the registered event handler class.
func WithEventHandler(name string) Option {
	return func(o *options) {
		if name != "" {
			o.eventHandler = name
		}
	}
}

// ScriptPath is the archive path of the ZScript source named scriptName.
func ScriptPath(scriptName string) string {
	return path.Join(ScriptDir, scriptName)
}

// Generate renders the archive's text assets from info. It performs no I/O;
// the timestamp is taken from info so the output is reproducible.
func Generate(info modinfo.Info, opts ...Option) (Assets, error) {
	o := options{
		settings:       DefaultSettings(),
		menu:           DefaultMenu(),
		strings:        DefaultStrings(info.Version.String()),
		zscriptVersion: DefaultZScriptVersion,
		eventHandler:   DefaultEventHandler,
		locale:         DefaultLocale,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := checkBindings(o.settings, o.menu); err != nil {
		return nil, err
	}

	data := templateData{
		Info:           info,
		ArchiveName:    info.ArchiveName(),
		BuiltAt:        info.BuiltAt(),
		Settings:       o.settings,
		Menu:           o.menu,
		Strings:        o.strings,
		Locale:         o.locale,
		ZScriptVersion: o.zscriptVersion,
		ScriptInclude:  ScriptPath(info.ScriptName()),
		EventHandler:   o.eventHandler,
	}

	layout := []struct{ path, tmpl string }{
		{PathSettings, "cvarinfo.tmpl"},
		{PathMenu, "menudef.tmpl"},
		{PathLoader, "zscript.tmpl"},
		{PathEventHandlers, "mapinfo.tmpl"},
		{PathLanguage, "language.tmpl"},
		{PathReadme, "readme.tmpl"},
	}

	assets := make(Assets, 0, len(layout))
	for _, l := range layout {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, l.tmpl, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", l.path, err)
		}
		assets = append(assets, Asset{Path: l.path, Content: buf.String()})
	}

	return assets, nil
}

// Paths returns the archive paths in generation order.
func (a Assets) Paths() []string {
	out := make([]string, len(a))
	for i, asset := range a {
		out[i] = asset.Path
	}
	return out
}

// Get returns the content stored at p.
func (a Assets) Get(p string) (string, bool) {
	for _, asset := range a {
		if asset.Path == p {
			return asset.Content, true
		}
	}
	return "", false
}

func checkBindings(settings []Setting, menu Menu) error {
	declared := make(map[string]struct{}, len(settings))
	for _, s := range settings {
		if _, dup := declared[s.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSetting, s.Name)
		}
		declared[s.Name] = struct{}{}
	}
	for _, cat := range menu.Categories {
		for _, c := range cat.Controls {
			if _, ok := declared[c.Setting]; !ok {
				return fmt.Errorf("%w: %q in category %q", ErrUnboundControl, c.Setting, cat.Title)
			}
		}
	}
	return nil
}
