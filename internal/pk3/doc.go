// SPDX-License-Identifier: MPL-2.0

// Package pk3 builds the mod archive.
//
// A build stages every generated asset and the ZScript source in a scratch
// directory, serializes that tree into a deflate zip with relative,
// slash-separated entry names and removes the scratch directory on every exit
// path. The archive manifest is therefore exactly the staged file set.
package pk3
