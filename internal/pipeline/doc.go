// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs the interactive build: source check, confirmation
// that the game is closed, cleanup of old versions, archive build and deploy.
//
// Steps run sequentially on the calling goroutine. Console output goes
// through a Reporter and questions through a Confirmer so the CLI and tests
// can each supply their own.
package pipeline
