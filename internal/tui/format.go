// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownStyle selects the glamour style. The empty value detects the
// terminal background.
type MarkdownStyle string

const (
	// MarkdownAuto detects the terminal background.
	MarkdownAuto MarkdownStyle = "auto"
	// MarkdownDark forces the dark style.
	MarkdownDark MarkdownStyle = "dark"
	// MarkdownLight forces the light style.
	MarkdownLight MarkdownStyle = "light"
	// MarkdownPlain renders without colors.
	MarkdownPlain MarkdownStyle = "notty"
)

// RenderMarkdown renders content for the terminal. Width 0 disables word wrap.
func RenderMarkdown(content string, style MarkdownStyle, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", MarkdownAuto:
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(string(style)))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}

	return renderer.Render(content)
}
