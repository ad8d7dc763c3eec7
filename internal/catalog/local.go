// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"log/slog"

	"github.com/ama-terasu/amaterasu/pkg/manifest"
)

// dependencyLayer is one dependency map with its names in declaration order.
type dependencyLayer struct {
	names    []string
	versions map[string]string
}

// LocalDependencies returns every dependency declared locally, in override order:
// workspace dependencies, then the host's peer, dev and direct dependencies. A
// source whose manifest cannot be read contributes nothing.
func (b *Builder) LocalDependencies() map[string]string {
	versions, _ := b.localDependencies()
	return versions
}

// localDependencies merges the local layers. Later layers win on version, while
// names keep the position of their first declaration: workspace names first, then
// names new to the host's peer, dev and direct dependencies, each in file order.
func (b *Builder) localDependencies() (map[string]string, []string) {
	versions := make(map[string]string)
	var names []string
	for _, layer := range b.localLayers() {
		for _, name := range layer.names {
			if _, seen := versions[name]; !seen {
				names = append(names, name)
			}
			versions[name] = layer.versions[name]
		}
	}
	return versions, names
}

func (b *Builder) localLayers() []dependencyLayer {
	var layers []dependencyLayer
	if ws := b.workspace.DeclaredManifest(); ws != nil {
		layers = append(layers, layerOf(ws, manifest.FieldDependencies))
	}
	if host := b.hostManifest(); host != nil {
		layers = append(layers,
			layerOf(host, manifest.FieldPeerDependencies),
			layerOf(host, manifest.FieldDevDependencies),
			layerOf(host, manifest.FieldDependencies),
		)
	}
	return layers
}

func layerOf(m *manifest.Manifest, field manifest.DependencyField) dependencyLayer {
	return dependencyLayer{names: m.DependencyNames(field), versions: m.DependencyMap(field)}
}

func (b *Builder) hostManifest() *manifest.Manifest {
	if !manifest.Exists(b.fs, b.hostManifestPath) {
		slog.Debug("no host manifest", "path", b.hostManifestPath)
		return nil
	}
	m, err := manifest.Read(b.fs, b.hostManifestPath)
	if err != nil {
		slog.Debug("host manifest unreadable", "path", b.hostManifestPath, "error", err)
		return nil
	}
	return m
}
