// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestGetHuhTheme(t *testing.T) {
	t.Parallel()

	for _, theme := range []Theme{ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16, "unknown"} {
		if getHuhTheme(theme) == nil {
			t.Errorf("getHuhTheme(%q) = nil", theme)
		}
	}
}

func TestChooseWithoutOptions(t *testing.T) {
	t.Parallel()

	if _, err := Choose(ChooseOptions[string]{Title: "pick"}); err == nil {
		t.Error("Choose() with no options should fail")
	}
}

func TestHuhOptions(t *testing.T) {
	t.Parallel()

	got := huhOptions([]Option[int]{{Title: "one", Value: 1}, {Title: "two", Value: 2}})
	if len(got) != 2 || got[0].Key != "one" || got[1].Value != 2 {
		t.Errorf("huhOptions() = %+v", got)
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := RenderTable(TableOptions{
		Headers: []string{"NAME", "VERSION"},
		Rows:    [][]string{{"foo", "1.0.0"}, {"bar", "2.0.0"}},
		CellStyle: func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle()
		},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header plus two rows, got %d lines:\n%s", len(lines), out)
	}
	for i, want := range [][]string{{"NAME", "VERSION"}, {"foo", "1.0.0"}, {"bar", "2.0.0"}} {
		for _, cell := range want {
			if !strings.Contains(lines[i], cell) {
				t.Errorf("line %d %q missing %q", i, lines[i], cell)
			}
		}
	}
}

func TestRenderTableBorder(t *testing.T) {
	t.Parallel()

	out := RenderTable(TableOptions{Headers: []string{"A"}, Rows: [][]string{{"x"}}, Border: true})
	if !strings.Contains(out, "╭") {
		t.Errorf("bordered table should use a rounded border:\n%s", out)
	}
}

func TestRenderMarkdownPlain(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("# amaterasu-foo\n\nA **module**.", MarkdownPlain, 0)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.Contains(out, "amaterasu-foo") || !strings.Contains(out, "module") {
		t.Errorf("rendered output lost content:\n%s", out)
	}
}
