// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output.
const (
	// ColorPrimary is used for titles and headers.
	ColorPrimary = lipgloss.Color("#E8590C")
	// ColorMuted is used for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess marks installed modules and completed actions.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError marks failures.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning marks warnings.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is used for package names and commands.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and installed modules.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for package names, commands and config keys.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// RemoteStyle marks modules that are only available from the registry.
	RemoteStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)
