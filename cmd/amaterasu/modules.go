// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ama-terasu/amaterasu/internal/issue"
	"github.com/ama-terasu/amaterasu/internal/tui"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

// remoteTag marks modules that are published but not installed.
const remoteTag = "(remote)"

type moduleJSON struct {
	Name             string            `json:"name"`
	DisplayName      string            `json:"display_name"`
	Version          string            `json:"version,omitempty"`
	Description      string            `json:"description"`
	Scope            string            `json:"scope,omitempty"`
	Source           modules.Source    `json:"source"`
	Installed        bool              `json:"installed"`
	InstalledVersion string            `json:"installed_version,omitempty"`
	ResolutionPath   string            `json:"resolution_path,omitempty"`
	PublishedAt      *time.Time        `json:"published_at,omitempty"`
	Links            map[string]string `json:"links,omitempty"`
}

func newModulesCommand(app *App) *cobra.Command {
	modulesCmd := &cobra.Command{
		Use:     "modules",
		Aliases: []string{"module", "mod"},
		Short:   "Discover and install amaterasu modules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	modulesCmd.AddCommand(newModulesListCommand(app))
	modulesCmd.AddCommand(newModulesInstallCommand(app))
	modulesCmd.AddCommand(newModulesInfoCommand(app))

	return modulesCmd
}

func newModulesListCommand(app *App) *cobra.Command {
	var localOnly, asJSON bool

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed and available modules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := app.Modules.List(cmd.Context(), app.request(localOnly))
			if err != nil {
				return err
			}
			if asJSON {
				return writeCatalogueJSON(app, cat)
			}
			renderCatalogue(app, cat, localOnly)
			return nil
		},
	}

	listCmd.Flags().BoolVarP(&localOnly, "local-only", "l", false, "skip the registry and list locally declared modules only")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print the catalogue as JSON")

	return listCmd
}

func newModulesInstallCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "install [name] [version]",
		Short: "Install a module into the workspace",
		Long: `Install a module into the workspace.

The name may be the package name or its short name ("foo" for
"amaterasu-foo"). Without a name, you are prompted to pick one of the
modules that are published but not installed. Without a version, the
version advertised by the registry is installed, pinned exactly.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name, version string
			if len(args) > 0 {
				name = args[0]
			}
			if len(args) > 1 {
				version = args[1]
			}
			return installModule(cmd.Context(), app, name, version)
		},
	}
}

func newModulesInfoCommand(app *App) *cobra.Command {
	var localOnly bool

	infoCmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show details about a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := app.Modules.List(cmd.Context(), app.request(localOnly))
			if err != nil {
				return err
			}
			rec, err := findModule(cat, args[0])
			if err != nil {
				return err
			}

			md := moduleMarkdown(rec)
			out, err := tui.RenderMarkdown(md, tui.MarkdownAuto, 0)
			if err != nil {
				out = md + "\n"
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}

	infoCmd.Flags().BoolVarP(&localOnly, "local-only", "l", false, "skip the registry")

	return infoCmd
}

func installModule(ctx context.Context, app *App, name, version string) error {
	cat, err := app.Modules.List(ctx, app.request(false))
	if err != nil {
		return err
	}

	var rec modules.Record
	if name == "" {
		rec, err = pickModule(app, cat.RemoteOnly())
	} else {
		rec, err = findModule(cat, name)
	}
	if err != nil {
		return err
	}

	if modules.IsInstalled(rec) && version == "" {
		fmt.Fprintf(app.stdout, "%s %s is already installed (%s)\n",
			SuccessStyle.Render("✓"), CmdStyle.Render(rec.Name), modules.InstalledVersion(rec))
		return nil
	}

	res, err := app.Modules.Install(ctx, app.request(false), rec, version)
	if err != nil {
		return err
	}

	pin := ""
	if !res.Pinned {
		pin = SubtitleStyle.Render(" (not an exact version)")
	}
	fmt.Fprintf(app.stdout, "%s Installed %s into %s%s\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(res.Name+"@"+res.Version), res.Workspace, pin)
	if res.Bootstrapped {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("  created workspace "+res.Workspace))
	}
	return nil
}

// findModule resolves name against the catalogue by package name, then by
// display name.
func findModule(cat modules.Catalogue, name string) (modules.Record, error) {
	if rec, ok := cat.Lookup(name); ok {
		return rec, nil
	}

	var matches []string
	for _, rec := range cat {
		if rec.DisplayName == name {
			matches = append(matches, rec.Name)
		}
	}
	if len(matches) > 1 {
		ec := issue.NewErrorContext().
			WithOperation("find module").
			WithResource(name).
			WithIssue(issue.AmbiguousModuleNameId)
		for _, m := range matches {
			ec.WithSuggestion("Did you mean " + m + "?")
		}
		return modules.Record{}, ec.Wrap(fmt.Errorf("%q matches %d modules", name, len(matches))).BuildError()
	}

	return modules.Record{}, issue.NewErrorContext().
		WithOperation("find module").
		WithResource(name).
		WithIssue(issue.ModuleNotFoundId).
		WithSuggestion("Run 'amaterasu modules list' to see the known modules").
		Wrap(fmt.Errorf("no module named %q", name)).
		BuildError()
}

func pickModule(app *App, candidates modules.Catalogue) (modules.Record, error) {
	if len(candidates) == 0 {
		return modules.Record{}, issue.NewErrorContext().
			WithOperation("choose module").
			WithIssue(issue.NoModulesFoundId).
			WithSuggestion("Every known module is already installed").
			Wrap(errors.New("no installable modules")).
			BuildError()
	}

	if !tui.IsInteractive() {
		return modules.Record{}, errors.New("a module name is required when stdin is not a terminal")
	}

	opts := make([]tui.Option[string], len(candidates))
	for i, rec := range candidates {
		opts[i] = tui.Option[string]{
			Title: fmt.Sprintf("%s  %s", rec.DisplayName, SubtitleStyle.Render(modules.FormattedDescription(rec))),
			Value: rec.Name,
		}
	}

	cfg := tui.DefaultConfig()
	cfg.Input = app.stdin
	name, err := tui.Choose(tui.ChooseOptions[string]{
		Title:   "Install which module?",
		Options: opts,
		Height:  10,
		Config:  cfg,
	})
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			return modules.Record{}, &ExitError{Code: 130}
		}
		return modules.Record{}, err
	}

	rec, _ := candidates.Lookup(name)
	return rec, nil
}

func renderCatalogue(app *App, cat modules.Catalogue, localOnly bool) {
	if len(cat) == 0 {
		fmt.Fprintln(app.stdout, WarningStyle.Render("No modules found."))
		if localOnly {
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("Retry without --local-only to include the registry."))
		}
		return
	}

	rows := make([][]string, len(cat))
	for i, rec := range cat {
		rows[i] = []string{rec.DisplayName, rec.Name, moduleState(rec), modules.FormattedDescription(rec)}
	}

	fmt.Fprint(app.stdout, tui.RenderTable(tui.TableOptions{
		Headers:     []string{"MODULE", "PACKAGE", "STATE", "DESCRIPTION"},
		Rows:        rows,
		HeaderStyle: TitleStyle,
		CellStyle:   catalogueCellStyle(cat),
	}))
	fmt.Fprintln(app.stdout)
}

func moduleState(rec modules.Record) string {
	if modules.Classify(rec) == modules.Installed {
		if v := modules.InstalledVersion(rec); v != "" {
			return "installed " + v
		}
		return "installed"
	}
	if rec.Version != "" {
		return remoteTag + " " + rec.Version
	}
	return remoteTag
}

func writeCatalogueJSON(app *App, cat modules.Catalogue) error {
	out := make([]moduleJSON, len(cat))
	for i, rec := range cat {
		m := moduleJSON{
			Name:        rec.Name,
			DisplayName: rec.DisplayName,
			Version:     rec.Version,
			Description: modules.FormattedDescription(rec),
			Scope:       rec.Scope,
			Source:      rec.Source,
			Installed:   modules.IsInstalled(rec),
			Links:       rec.Links,
		}
		if m.Installed {
			m.InstalledVersion = modules.InstalledVersion(rec)
			m.ResolutionPath = rec.Installed.ResolutionPath
		}
		if !rec.PublishedAt.IsZero() {
			m.PublishedAt = &rec.PublishedAt
		}
		out[i] = m
	}

	enc := json.NewEncoder(app.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func moduleMarkdown(rec modules.Record) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", rec.DisplayName)
	fmt.Fprintf(&sb, "%s\n\n", modules.FormattedDescription(rec))
	fmt.Fprintf(&sb, "- **Package:** `%s`\n", rec.Name)
	if rec.Version != "" {
		fmt.Fprintf(&sb, "- **Version:** %s\n", rec.Version)
	}
	if modules.IsInstalled(rec) {
		fmt.Fprintf(&sb, "- **Installed:** %s at `%s`\n", modules.InstalledVersion(rec), rec.Installed.ResolutionPath)
	} else {
		fmt.Fprintf(&sb, "- **Installed:** no, install with `amaterasu modules install %s`\n", rec.Name)
	}
	if !rec.PublishedAt.IsZero() {
		fmt.Fprintf(&sb, "- **Published:** %s\n", rec.PublishedAt.Format(time.DateOnly))
	}
	if len(rec.Maintainers) > 0 {
		names := make([]string, len(rec.Maintainers))
		for i, m := range rec.Maintainers {
			names[i] = m.String()
		}
		fmt.Fprintf(&sb, "- **Maintainers:** %s\n", strings.Join(names, ", "))
	}
	if len(rec.Keywords) > 0 {
		fmt.Fprintf(&sb, "- **Keywords:** %s\n", strings.Join(rec.Keywords, ", "))
	}
	for _, key := range []string{"npm", "homepage", "repository", "bugs"} {
		if link := rec.Links[key]; link != "" {
			fmt.Fprintf(&sb, "- **%s:** <%s>\n", key, link)
		}
	}

	return sb.String()
}
