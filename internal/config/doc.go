// SPDX-License-Identifier: MPL-2.0

// Package config handles scmtool configuration using Viper with CUE as the file format.
//
// Configuration is loaded from the --config flag, then scmtool/config.cue in the
// platform config directory (~/.config on Linux, ~/Library/Application Support on
// macOS, %APPDATA% on Windows), then ./config.cue. Every file is validated against
// the embedded config_schema.cue before it is merged over the defaults. Environment
// variables prefixed with SCM_ override both (SCM_TARGET_DIR, SCM_UI_VERBOSE, ...).
//
// The target install directory and cleanup patterns live here rather than in the
// build logic, so tests and unusual Steam library locations only need a config value.
package config
