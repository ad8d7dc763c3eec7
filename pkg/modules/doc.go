// SPDX-License-Identifier: MPL-2.0

// Package modules defines the data model shared by amaterasu's module discovery
// and installation subsystem.
//
// A module is an npm package that declares the [Keyword] among its manifest keywords.
// Modules are either installed (resolvable on disk right now, in the host tool's own
// dependency tree or in the dyn_modules workspace) or remote-only (advertised by the
// registry but not present locally).
//
// # Naming
//
// Package names are shown to users through [Simplify], which drops an optional
// "@scope/" segment and the "amaterasu-" naming prefix:
//
//	@ama-terasu/amaterasu-otter  ->  otter
//	amaterasu-deploy             ->  deploy
//	left-pad                     ->  left-pad
//
// # Catalogue
//
// [Record] is a catalogue entry; [Catalogue] is the ordered result of a discovery pass.
// [IsInstalled], [Classify], and [FormattedDescription] implement the installed versus
// remote-only classification consumed by the CLI.
package modules
