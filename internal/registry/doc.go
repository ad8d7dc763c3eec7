// SPDX-License-Identifier: MPL-2.0

// Package registry discovers modules published to the package registry.
//
// Two searchers are provided: CLISearcher shells out to the package manager and
// HTTPSearcher talks to the registry's search endpoint. Client wraps either one and
// never fails; discovery keeps working offline.
package registry
