// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts used by scmtool: a Bubble Tea
// yes/no confirmation for terminals, a plain line prompt for pipes and
// redirected input, and the "press Enter to exit" pause.
package tui
