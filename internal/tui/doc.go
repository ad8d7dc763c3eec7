// SPDX-License-Identifier: MPL-2.0

// Package tui wraps charmbracelet/huh, lipgloss and glamour into the few terminal
// components the CLI needs: a single-choice prompt, static tables and markdown
// rendering.
package tui
