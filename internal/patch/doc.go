// SPDX-License-Identifier: MPL-2.0

// Package patch works around a ZScript parser quirk in the mod's source: a
// type comparison such as `item is "weapon"` fails when the literal's case does
// not match the declared class name.
//
// Two strategies are provided. CaseNormalizer rewrites every mis-cased literal
// to the canonical spelling and is the default. BlockReplacer swaps the whole
// weapon check for a cast-based equivalent. Apply writes the result either as a
// new *_fixed file or in place after saving a .backup copy.
package patch
