// SPDX-License-Identifier: MPL-2.0

// Package workspace manages the directory modules are installed into and runs the
// package manager against it.
//
// The workspace is the only state amaterasu mutates. Installer serializes every
// mutation: in process with a mutex and singleflight, across processes with an
// flock on Linux.
package workspace
