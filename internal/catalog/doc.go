// SPDX-License-Identifier: MPL-2.0

// Package catalog builds the list of known modules.
//
// A catalogue merges modules declared by the host or installed into the workspace
// with modules published to the registry. Each record carries the module's
// metadata, its display name and, when it can be loaded from disk, its installed
// state.
package catalog
