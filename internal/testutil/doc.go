// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by scmtool tests: a controllable
// clock, environment and working-directory helpers with automatic cleanup,
// and filesystem fixtures for source scripts and stale archives.
package testutil
