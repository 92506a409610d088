// SPDX-License-Identifier: MPL-2.0

// Package modinfo defines the immutable build configuration of a mod: its name,
// version, build timestamp, source script and deployment target. Every value is
// validated once at construction and read-only afterwards.
package modinfo
