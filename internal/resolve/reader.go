// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/afero"

	"github.com/ama-terasu/amaterasu/pkg/manifest"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

// Reader looks up the manifests of packages by name. The workspace package root is
// searched before the host roots, so a module installed into the workspace shadows
// a copy bundled with the host.
//
// Every lookup is best effort: failures are logged at debug level and reported as
// absence, since most registry-discovered modules are not installed.
type Reader struct {
	fs       afero.Fs
	resolver Resolver
	roots    []string
	memo     *Memo
}

// NewReader creates a Reader over the workspace package root followed by hostRoots.
func NewReader(fsys afero.Fs, resolver Resolver, workspaceModules string, hostRoots []string) *Reader {
	roots := make([]string, 0, len(hostRoots)+1)
	roots = append(roots, workspaceModules)
	roots = append(roots, hostRoots...)
	return &Reader{fs: fsys, resolver: resolver, roots: roots}
}

// Roots returns the package roots in search order.
func (r *Reader) Roots() []string {
	return slices.Clone(r.roots)
}

// Scoped returns a Reader sharing r's configuration with a fresh Memo in front of its
// resolver. Use one per catalogue build.
func (r *Reader) Scoped() *Reader {
	memo := NewMemo(r.resolver)
	return &Reader{fs: r.fs, resolver: memo, roots: r.roots, memo: memo}
}

// ReadManifest returns the manifest of the installed package name.
func (r *Reader) ReadManifest(ctx context.Context, name string) (*manifest.Manifest, bool) {
	state := r.InstalledInformation(ctx, modules.Identity{Name: name})
	if state == nil {
		return nil, false
	}
	return state.Manifest, true
}

// InstalledInformation resolves id to its entry file and parses the nearest manifest
// above it. It returns nil when the package is not installed or its manifest is unreadable.
func (r *Reader) InstalledInformation(ctx context.Context, id modules.Identity) *modules.InstalledState {
	if ctx.Err() != nil {
		return nil
	}

	entry, err := r.resolver.Resolve(id.Name, r.roots)
	if err != nil {
		slog.Debug("module not resolvable", "name", id.Name, "error", err)
		return nil
	}

	path, ok := manifest.Locate(r.fs, entry)
	if !ok {
		slog.Debug("no manifest above entry", "name", id.Name, "entry", entry)
		return nil
	}

	m, err := r.readManifest(path)
	if err != nil {
		slog.Debug("module manifest unreadable", "name", id.Name, "error", err)
		return nil
	}

	return &modules.InstalledState{ResolutionPath: entry, Manifest: m}
}

func (r *Reader) readManifest(path string) (*manifest.Manifest, error) {
	if r.memo != nil {
		return r.memo.ReadManifest(r.fs, path)
	}
	m, err := manifest.Read(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return m, nil
}
