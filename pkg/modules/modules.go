// SPDX-License-Identifier: MPL-2.0

package modules

import (
	"time"

	"github.com/ama-terasu/amaterasu/pkg/manifest"
)

const (
	// Keyword identifies plugin packages. Every module manifest must list it among its
	// keywords to be catalogued.
	Keyword = "amaterasu-module"

	// NamePrefix is the naming convention prefix stripped from display names.
	NamePrefix = "amaterasu-"

	// WorkspaceDirName is the auxiliary workspace folder, relative to the install root.
	WorkspaceDirName = "dyn_modules"

	// MissingDescription is shown for modules that do not provide a description.
	MissingDescription = "<Missing description>"

	// LatestVersion is the version requested when neither the caller nor the record
	// provide one.
	LatestVersion = "latest"
)

const (
	// SourceLocal marks candidates found through locally declared dependencies.
	SourceLocal Source = "local"
	// SourceRegistry marks candidates returned by the registry search.
	SourceRegistry Source = "registry"
)

const (
	// Installed means the module is resolvable on the local filesystem.
	Installed Classification = "installed"
	// RemoteOnly means the module is known but not installed.
	RemoteOnly Classification = "remote"
)

type (
	// Source identifies the candidate list a record was last written from.
	Source string

	// Classification is the installed versus remote-only state of a record.
	Classification string

	// Identity is the registry-unique package identifier, scope included.
	Identity struct {
		Name string
	}

	// SearchRecord is a package returned by a registry search.
	SearchRecord struct {
		manifest.Metadata

		// Scope is the npm scope without the leading "@" ("unscoped" for unscoped packages).
		Scope string `json:"scope,omitempty"`
		// PublishedAt is the publication date of the returned version.
		PublishedAt time.Time `json:"date"`
		// Links maps link kinds (npm, homepage, repository, bugs) to URLs.
		Links map[string]string `json:"links,omitempty"`
	}

	// InstalledState describes a module that is resolvable on disk right now.
	InstalledState struct {
		// ResolutionPath is the entry file the package name resolved to.
		ResolutionPath string `json:"resolutionPath"`
		// Manifest is the nearest manifest above ResolutionPath.
		Manifest *manifest.Manifest `json:"package"`
	}

	// Record is a catalogue entry: the candidate's own fields, the display name and,
	// when the module is installed, its installed state.
	Record struct {
		manifest.Metadata

		Scope       string            `json:"scope,omitempty"`
		PublishedAt time.Time         `json:"date,omitzero"`
		Links       map[string]string `json:"links,omitempty"`

		// DisplayName is the short, user-facing name computed by Simplify.
		DisplayName string `json:"moduleName"`

		// Source is the origin of the candidate that produced this record.
		Source Source `json:"source"`

		// Installed is nil when the module is known but not installed.
		Installed *InstalledState `json:"installed,omitempty"`
	}

	// Catalogue is the ordered result of a discovery pass. Names are unique.
	Catalogue []Record
)

// Identity returns the record's package identity.
func (r Record) Identity() Identity { return Identity{Name: r.Name} }

// IsInstalled reports whether the record carries both a resolution path and a manifest.
func IsInstalled(rec Record) bool {
	return rec.Installed != nil && rec.Installed.ResolutionPath != "" && rec.Installed.Manifest != nil
}

// Classify returns Installed or RemoteOnly for the record.
func Classify(rec Record) Classification {
	if IsInstalled(rec) {
		return Installed
	}
	return RemoteOnly
}

// FormattedDescription returns the record's description, or MissingDescription when
// it has none. Presentation of the remote-only tag is left to the caller (see Classify).
func FormattedDescription(rec Record) string {
	if rec.Description == "" {
		return MissingDescription
	}
	return rec.Description
}

// InstalledVersion returns the version of the installed manifest, or "" when the
// record is not installed.
func InstalledVersion(rec Record) string {
	if !IsInstalled(rec) {
		return ""
	}
	return rec.Installed.Manifest.Version
}

// Names returns the package names in catalogue order.
func (c Catalogue) Names() []string {
	names := make([]string, len(c))
	for i := range c {
		names[i] = c[i].Name
	}
	return names
}

// Lookup finds a record by package name first, then by display name. A display name
// shared by several packages is ambiguous and reported as not found.
func (c Catalogue) Lookup(name string) (Record, bool) {
	for i := range c {
		if c[i].Name == name {
			return c[i], true
		}
	}

	var (
		found Record
		hits  int
	)
	for i := range c {
		if c[i].DisplayName == name {
			found = c[i]
			hits++
		}
	}
	return found, hits == 1
}

// RemoteOnly returns the records that are not installed, in catalogue order.
func (c Catalogue) RemoteOnly() Catalogue {
	var out Catalogue
	for i := range c {
		if !IsInstalled(c[i]) {
			out = append(out, c[i])
		}
	}
	return out
}
