// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ama-terasu/amaterasu/internal/resolve"
	"github.com/ama-terasu/amaterasu/pkg/manifest"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

// Workspace is the auxiliary package directory modules are installed into, kept
// apart from the host's own dependency tree. It lives at <install-root>/dyn_modules
// and is created on first install.
type Workspace struct {
	fs  afero.Fs
	dir string
}

// New returns the workspace of the given install root. Nothing is created.
func New(fsys afero.Fs, installRoot string) *Workspace {
	return &Workspace{fs: fsys, dir: filepath.Join(filepath.Clean(installRoot), modules.WorkspaceDirName)}
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string { return w.dir }

// ManifestPath returns the path of the workspace's own package.json.
func (w *Workspace) ManifestPath() string { return filepath.Join(w.dir, manifest.FileName) }

// NodeModulesDir returns the package root installed modules land in.
func (w *Workspace) NodeModulesDir() string { return filepath.Join(w.dir, resolve.NodeModulesDir) }

// LockPath returns the cross-process lock file, a sibling of the workspace directory
// so that it can be taken before the directory exists.
func (w *Workspace) LockPath() string { return w.dir + ".lock" }

// HasManifest reports whether the workspace has been bootstrapped.
func (w *Workspace) HasManifest() bool { return manifest.Exists(w.fs, w.ManifestPath()) }

// Manifest reads the workspace manifest.
func (w *Workspace) Manifest() (*manifest.Manifest, error) {
	return manifest.Read(w.fs, w.ManifestPath())
}

// DeclaredManifest returns the workspace manifest, or nil when it is missing or
// unreadable.
func (w *Workspace) DeclaredManifest() *manifest.Manifest {
	if !w.HasManifest() {
		return nil
	}
	m, err := w.Manifest()
	if err != nil {
		slog.Debug("workspace manifest unreadable", "path", w.ManifestPath(), "error", err)
		return nil
	}
	return m
}

// Dependencies returns the workspace's declared dependencies. A missing or
// unreadable manifest contributes nothing.
func (w *Workspace) Dependencies() map[string]string {
	if m := w.DeclaredManifest(); m != nil {
		return m.Dependencies
	}
	return nil
}
