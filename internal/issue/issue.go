// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	ConfigLoadFailedId Id = iota + 1
	RegistryUnavailableId
	PackageManagerNotFoundId
	WorkspaceBootstrapFailedId
	InstallFailedId
	ModuleNotFoundId
	AmbiguousModuleNameId
	PermissionDeniedId
	NoModulesFoundId
)

type (
	// Id identifies a catalogued issue.
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is a Markdown help page shown alongside an error the user can act on.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The amaterasu configuration file could not be read or did not match the schema.

## Things you can try:
- Print the path amaterasu reads its configuration from:
~~~
$ amaterasu config path
~~~

- Print the effective configuration with defaults applied:
~~~
$ amaterasu config show
~~~

- Remove unknown keys. Every key must be declared by the schema.`,
	}

	registryUnavailableIssue = &Issue{
		id: RegistryUnavailableId,
		mdMsg: `
# Module registry unavailable!

The package registry could not be searched, so only locally declared modules are listed.

## Things you can try:
- Check your network connection and proxy settings
- Check the registry settings:
~~~
$ amaterasu config show
~~~

- List installed modules without contacting the registry:
~~~
$ amaterasu modules list --local-only
~~~`,
		extLinks: []HttpLink{"https://docs.npmjs.com/cli/commands/npm-search"},
	}

	packageManagerNotFoundIssue = &Issue{
		id: PackageManagerNotFoundId,
		mdMsg: `
# Package manager not found!

amaterasu installs modules with an npm compatible package manager, and none was found on your PATH.

## Things you can try:
- Install Node.js, which ships with npm
- Point amaterasu at another binary:
~~~cue
package_manager: binary: "/usr/local/bin/npm"
~~~`,
		extLinks: []HttpLink{"https://nodejs.org/en/download"},
	}

	workspaceBootstrapFailedIssue = &Issue{
		id: WorkspaceBootstrapFailedId,
		mdMsg: `
# Failed to prepare the module workspace!

Modules are installed into a dedicated workspace next to the amaterasu installation, and it could not be created.

## Things you can try:
- Check that the install root is writable
- Move the install root somewhere writable:
~~~
$ AMATERASU_INSTALL_ROOT=$HOME/.amaterasu amaterasu modules install
~~~`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Module installation failed!

The package manager exited with an error while installing the module.

## Things you can try:
- Check that the module name and version exist in the registry
- Re-run with verbose output to see the package manager logs:
~~~
$ amaterasu --verbose modules install <name> <version>
~~~`,
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Module not found!

No known module matches the requested name.

## Things you can try:
- List the available modules:
~~~
$ amaterasu modules list
~~~

- Use the full package name, scope included (e.g. ` + "`@scope/amaterasu-foo`" + `)`,
	}

	ambiguousModuleNameIssue = &Issue{
		id: AmbiguousModuleNameId,
		mdMsg: `
# Ambiguous module name!

Several modules share this short name.

## Things you can try:
- Use the full package name, scope included, to pick one`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

amaterasu lacks permission to write to the module workspace.

## Things you can try:
- Check the owner of the install root directory
- Avoid running the installer as a different user than the one that installed amaterasu`,
	}

	noModulesFoundIssue = &Issue{
		id: NoModulesFoundId,
		mdMsg: `
# No modules found!

Neither the local manifests nor the registry returned any module.

## Things you can try:
- Modules are packages tagged with the ` + "`amaterasu-module`" + ` keyword
- Retry without ` + "`--local-only`" + ` to include the registry`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		registryUnavailableIssue.Id():      registryUnavailableIssue,
		packageManagerNotFoundIssue.Id():   packageManagerNotFoundIssue,
		workspaceBootstrapFailedIssue.Id(): workspaceBootstrapFailedIssue,
		installFailedIssue.Id():            installFailedIssue,
		moduleNotFoundIssue.Id():           moduleNotFoundIssue,
		ambiguousModuleNameIssue.Id():      ambiguousModuleNameIssue,
		permissionDeniedIssue.Id():         permissionDeniedIssue,
		noModulesFoundIssue.Id():           noModulesFoundIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Title returns the text of the issue's top-level heading, without its trailing
// exclamation mark.
func (i *Issue) Title() string {
	for line := range strings.Lines(string(i.mdMsg)) {
		if heading, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSuffix(strings.TrimSpace(heading), "!")
		}
	}
	return ""
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the issue rendered for the terminal with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
		for _, link := range i.extLinks {
			md.WriteString("\n- <" + string(link) + ">")
		}
	}
	return render(md.String(), stylePath)
}

// Values returns every catalogued issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for v := range maps.Values(issues) {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
