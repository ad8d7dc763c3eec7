// SPDX-License-Identifier: MPL-2.0

// Package resolve finds installed modules on disk.
//
// Resolution follows Node's lookup for bare package names across an ordered list of
// node_modules roots. The Reader layers module semantics on top: it searches the
// plugin workspace before the host's own roots and turns every failure into absence.
package resolve
