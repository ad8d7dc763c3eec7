// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/ama-terasu/amaterasu/internal/config"
)

// newLogger returns the logger behind slog for one CLI invocation. Library
// packages log through slog; this decides where those records go.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          config.AppName,
		ReportTimestamp: verbose,
	})
}

// setupLogging installs a charmbracelet/log handler as the slog default.
func setupLogging(w io.Writer, verbose bool) {
	slog.SetDefault(slog.New(newLogger(w, verbose)))
}
