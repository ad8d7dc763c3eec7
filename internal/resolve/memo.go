// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/ama-terasu/amaterasu/pkg/manifest"
)

type (
	// Memo memoizes resolutions and manifest parses for the duration of one request.
	// It is safe for concurrent use. A Memo never invalidates, so it must not outlive
	// the operation that created it: an install in between would make it stale.
	Memo struct {
		next Resolver

		mu        sync.Mutex
		resolved  map[string]resolution
		manifests map[string]parsed
	}

	resolution struct {
		path string
		err  error
	}

	parsed struct {
		m   *manifest.Manifest
		err error
	}
)

// NewMemo wraps next with a fresh cache.
func NewMemo(next Resolver) *Memo {
	return &Memo{
		next:      next,
		resolved:  make(map[string]resolution),
		manifests: make(map[string]parsed),
	}
}

// Resolve implements Resolver.
func (m *Memo) Resolve(name string, roots []string) (string, error) {
	key := name + "\x00" + strings.Join(roots, "\x00")

	m.mu.Lock()
	if r, ok := m.resolved[key]; ok {
		m.mu.Unlock()
		return r.path, r.err
	}
	m.mu.Unlock()

	path, err := m.next.Resolve(name, roots)

	m.mu.Lock()
	m.resolved[key] = resolution{path: path, err: err}
	m.mu.Unlock()
	return path, err
}

// ReadManifest parses the manifest at path once per Memo.
func (m *Memo) ReadManifest(fsys afero.Fs, path string) (*manifest.Manifest, error) {
	m.mu.Lock()
	if p, ok := m.manifests[path]; ok {
		m.mu.Unlock()
		return p.m, p.err
	}
	m.mu.Unlock()

	mf, err := manifest.Read(fsys, path)

	m.mu.Lock()
	m.manifests[path] = parsed{m: mf, err: err}
	m.mu.Unlock()
	return mf, err
}
