// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ama-terasu/amaterasu/pkg/modules"
)

// catalogueCellStyle highlights package names and dims remote-only rows.
func catalogueCellStyle(cat modules.Catalogue) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		if row < 0 || row >= len(cat) {
			return lipgloss.NewStyle()
		}
		installed := modules.IsInstalled(cat[row])
		switch {
		case col == 1:
			return CmdStyle
		case col == 2 && installed:
			return SuccessStyle
		case !installed:
			return RemoteStyle
		default:
			return lipgloss.NewStyle()
		}
	}
}
