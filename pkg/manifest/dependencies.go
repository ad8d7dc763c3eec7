// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"maps"
	"slices"
)

// DependencyField names one of the dependency maps of a manifest.
type DependencyField string

const (
	// FieldDependencies is the "dependencies" map.
	FieldDependencies DependencyField = "dependencies"
	// FieldDevDependencies is the "devDependencies" map.
	FieldDevDependencies DependencyField = "devDependencies"
	// FieldPeerDependencies is the "peerDependencies" map.
	FieldPeerDependencies DependencyField = "peerDependencies"
)

var dependencyFields = []DependencyField{FieldDependencies, FieldDevDependencies, FieldPeerDependencies}

// DependencyMap returns the dependency map stored under field.
func (m *Manifest) DependencyMap(field DependencyField) map[string]string {
	switch field {
	case FieldDependencies:
		return m.Dependencies
	case FieldDevDependencies:
		return m.DevDependencies
	case FieldPeerDependencies:
		return m.PeerDependencies
	default:
		return nil
	}
}

// DependencyNames returns the names declared under field in the order the
// manifest file lists them. Manifests not produced by Parse carry no order, and
// their names come back sorted.
func (m *Manifest) DependencyNames(field DependencyField) []string {
	deps := m.DependencyMap(field)
	if len(deps) == 0 {
		return nil
	}

	names := slices.DeleteFunc(slices.Clone(m.order[field]), func(name string) bool {
		_, ok := deps[name]
		return !ok
	})
	if len(names) != len(deps) {
		return slices.Sorted(maps.Keys(deps))
	}
	return names
}
