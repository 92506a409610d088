// SPDX-License-Identifier: MPL-2.0

// Package content generates the text assets packed into the mod archive:
// CVar declarations, the options menu, the ZScript loader stub, the event
// handler registration, the language table and the readme.
package content
