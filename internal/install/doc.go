// SPDX-License-Identifier: MPL-2.0

// Package install manages the game's Mods folder: Clean removes archives left
// by earlier versions of the mod and Deploy copies a freshly built archive in.
package install
