// SPDX-License-Identifier: MPL-2.0

package content

import (
	"fmt"
	"strconv"
)

const (
	// SettingBool is a true/false CVar.
	SettingBool SettingType = "bool"
	// SettingInt is an integer CVar.
	SettingInt SettingType = "int"
	// SettingFloat is a floating point CVar.
	SettingFloat SettingType = "float"

	// ControlOption is a selector bound to an OptionValue set such as "OnOff".
	ControlOption ControlKind = "Option"
	// ControlSlider is a numeric slider.
	ControlSlider ControlKind = "Slider"
)

type (
	// SettingType is the CVar storage type.
	SettingType string

	// Setting is one server-replicated CVar declaration.
	Setting struct {
		Name    string
		Type    SettingType
		Default string
	}

	// ControlKind selects how a menu control is rendered.
	ControlKind string

	// Control is a menu entry bound to exactly one Setting.
	Control struct {
		Kind    ControlKind
		Label   string
		Setting string
		// Values names the OptionValue set for ControlOption.
		Values string
		// Min, Max, Step and Precision configure ControlSlider.
		Min, Max, Step string
		Precision      int
	}

	// Category groups controls under a heading.
	Category struct {
		Title    string
		Controls []Control
	}

	// OptionValue is a named enumeration referenced by ControlOption.
	OptionValue struct {
		Name   string
		Values []OptionEntry
	}

	// OptionEntry is one key/label pair of an OptionValue.
	OptionEntry struct {
		Key   int
		Label string
	}

	// Menu is the options menu hooked into the game's mod options.
	Menu struct {
		// Parent is the existing menu the submenu is added to.
		Parent string
		// Label is shown in Parent; ID names the new OptionMenu.
		Label, ID    string
		Title        string
		Categories   []Category
		Footer       string
		OptionValues []OptionValue
	}

	// LocalizedString is one entry of the language table.
	LocalizedString struct {
		Key   string
		Value string
	}
)

// Bool declares a boolean setting.
func Bool(name string, def bool) Setting {
	return Setting{Name: name, Type: SettingBool, Default: strconv.FormatBool(def)}
}

// Int declares an integer setting.
func Int(name string, def int) Setting {
	return Setting{Name: name, Type: SettingInt, Default: strconv.Itoa(def)}
}

// Float declares a float setting. Whole numbers keep one decimal ("1.0").
func Float(name string, def float64) Setting {
	s := strconv.FormatFloat(def, 'f', -1, 64)
	if def == float64(int64(def)) {
		s = strconv.FormatFloat(def, 'f', 1, 64)
	}
	return Setting{Name: name, Type: SettingFloat, Default: s}
}

// Line renders the control as a MENUDEF statement.
func (c Control) Line() string {
	switch c.Kind {
	case ControlSlider:
		return fmt.Sprintf("Slider %q, %q, %s, %s, %s, %d", c.Label, c.Setting, c.Min, c.Max, c.Step, c.Precision)
	default:
		return fmt.Sprintf("Option %q, %q, %q", c.Label, c.Setting, c.Values)
	}
}

func onOff(label, setting string) Control {
	return Control{Kind: ControlOption, Label: label, Setting: setting, Values: "OnOff"}
}

// DefaultSettings returns the collectibles tracker CVars.
func DefaultSettings() []Setting {
	return []Setting{
		Bool("scm_track_collectibles", true),
		Bool("scm_track_all_pickups", false),
		Bool("scm_track_health", false),
		Bool("scm_track_armor", false),
		Bool("scm_track_ammo", false),
		Bool("scm_track_weapons", false),
		Bool("scm_track_powerups", false),
		Bool("scm_track_keys", true),
		Bool("scm_autoreveal_map", true),
		Bool("scm_show_cleared", true),
		Float("scm_marker_size", 1.0),
		Int("scm_marker_style", 0),
		Int("scm_update_frequency", 10),
	}
}

// DefaultMenu returns the options menu for DefaultSettings.
func DefaultMenu() Menu {
	return Menu{
		Parent: "ModOptionsMenu",
		Label:  "Collectibles Tracker",
		ID:     "SCMv2_Options",
		Title:  "Collectibles Tracker Options",
		Categories: []Category{
			{
				Title: "General Options",
				Controls: []Control{
					onOff("Auto-Reveal Map", "scm_autoreveal_map"),
					onOff("Show Cleared Markers", "scm_show_cleared"),
					onOff("Track All Pickups", "scm_track_all_pickups"),
				},
			},
			{
				Title: "Item Categories",
				Controls: []Control{
					onOff("Track Collectibles", "scm_track_collectibles"),
					onOff("Track Health Items", "scm_track_health"),
					onOff("Track Armor Items", "scm_track_armor"),
					onOff("Track Ammunition", "scm_track_ammo"),
					onOff("Track Weapons", "scm_track_weapons"),
					onOff("Track Powerups", "scm_track_powerups"),
					onOff("Track Keys", "scm_track_keys"),
				},
			},
			{
				Title: "Display Options",
				Controls: []Control{
					{Kind: ControlSlider, Label: "Marker Size", Setting: "scm_marker_size", Min: "0.1", Max: "2.0", Step: "0.1", Precision: 1},
					{Kind: ControlOption, Label: "Marker Style", Setting: "scm_marker_style", Values: "MarkerStyles"},
					{Kind: ControlSlider, Label: "Update Frequency", Setting: "scm_update_frequency", Min: "1", Max: "35", Step: "5", Precision: 0},
				},
			},
		},
		Footer: "Performance: Lower update frequency for better FPS",
		OptionValues: []OptionValue{
			{
				Name: "MarkerStyles",
				Values: []OptionEntry{
					{Key: 0, Label: "Native Icons"},
					{Key: 1, Label: "Flare Only"},
					{Key: 2, Label: "Minimal"},
				},
			},
		},
	}
}

// DefaultStrings returns the English language table. The first entry embeds
// the mod version.
func DefaultStrings(version string) []LocalizedString {
	return []LocalizedString{
		{Key: "COLLECTIBLES_MAP_REVEALED", Value: `\c[yellow]Collectibles Mod v` + version + `: Map revealed!`},
		{Key: "MAPICON_COLLECTIBLE", Value: "Collectible"},
		{Key: "MAPICON_HEALTH", Value: "Health"},
		{Key: "MAPICON_ARMOR", Value: "Armor"},
		{Key: "MAPICON_AMMO", Value: "Ammunition"},
		{Key: "MAPICON_WEAPON", Value: "Weapon"},
		{Key: "MAPICON_POWERUP", Value: "Powerup"},
		{Key: "MAPICON_KEY", Value: "Keycard"},
		{Key: "MAPICON_SECRET", Value: "Secret"},
	}
}
