// SPDX-License-Identifier: MPL-2.0

// Package manifest reads npm package manifests (package.json).
//
// Only the fields amaterasu needs are decoded: identity and descriptive metadata,
// the entry point, and the three dependency maps. All filesystem access goes
// through an [afero.Fs] so callers can run against an in-memory tree in tests.
package manifest
