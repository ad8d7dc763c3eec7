// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by tests: fixture trees on an
// afero filesystem, working directory and environment changes that restore
// themselves, and the platform's configuration home.
package testutil
