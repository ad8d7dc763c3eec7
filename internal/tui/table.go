// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableOptions configures a static table.
type TableOptions struct {
	// Headers are the column titles.
	Headers []string
	// Rows contains the table data.
	Rows [][]string
	// HeaderStyle styles the header row.
	HeaderStyle lipgloss.Style
	// CellStyle styles a data cell. Row indices start at 0.
	CellStyle func(row, col int) lipgloss.Style
	// Border draws a rounded border when set; otherwise columns are separated by spaces.
	Border bool
	// Width caps the table width (0 for auto).
	Width int
}

// RenderTable renders a non-interactive table.
func RenderTable(opts TableOptions) string {
	t := table.New().
		Headers(opts.Headers...).
		Rows(opts.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return opts.HeaderStyle.PaddingRight(2)
			}
			if opts.CellStyle != nil {
				return opts.CellStyle(row, col).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	if opts.Border {
		t = t.Border(lipgloss.RoundedBorder())
	} else {
		t = t.Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false).
			BorderHeader(false)
	}
	if opts.Width > 0 {
		t = t.Width(opts.Width)
	}

	return t.String()
}
