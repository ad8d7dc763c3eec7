// SPDX-License-Identifier: MPL-2.0

// Package runner abstracts running the package manager as an external process.
//
// Callers depend on the Runner interface; ExecRunner backs it with os/exec and the
// runnertest package provides a scripted fake. A non-zero exit is reported as an
// *ExitError carrying the exit code and captured stderr.
package runner
