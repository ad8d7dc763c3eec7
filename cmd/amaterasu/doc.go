// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the amaterasu CLI commands.
//
// The commands are thin: they load configuration, build the module catalogue
// through a ModuleService and render the result. All discovery and installation
// logic lives in internal/catalog and internal/workspace.
package cmd
