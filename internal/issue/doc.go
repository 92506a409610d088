// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context for scmtool.
//
// ActionableError carries the failed operation, the resource involved and a list
// of suggestions. Issue pages are longer Markdown explanations rendered with
// glamour for the failures a modder is most likely to hit: a missing ZScript
// source, an install directory that cannot be written, and a broken config file.
package issue
