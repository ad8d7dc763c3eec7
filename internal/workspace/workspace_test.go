// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"testing"

	"github.com/spf13/afero"
)

func TestWorkspacePaths(t *testing.T) {
	t.Parallel()

	ws := New(afero.NewMemMapFs(), "/opt/amaterasu/")

	checks := map[string]string{
		"Dir":            ws.Dir(),
		"ManifestPath":   ws.ManifestPath(),
		"NodeModulesDir": ws.NodeModulesDir(),
		"LockPath":       ws.LockPath(),
	}
	want := map[string]string{
		"Dir":            "/opt/amaterasu/dyn_modules",
		"ManifestPath":   "/opt/amaterasu/dyn_modules/package.json",
		"NodeModulesDir": "/opt/amaterasu/dyn_modules/node_modules",
		"LockPath":       "/opt/amaterasu/dyn_modules.lock",
	}
	for name, got := range checks {
		if got != want[name] {
			t.Errorf("%s() = %q, want %q", name, got, want[name])
		}
	}
}

func TestWorkspaceDependencies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest string
		want     map[string]string
	}{
		{name: "not bootstrapped"},
		{name: "no dependencies", manifest: `{"name":"dyn_modules"}`},
		{
			name:     "installed modules",
			manifest: `{"name":"dyn_modules","dependencies":{"amaterasu-a":"1.0.0","@s/amaterasu-b":"2.0.0"}}`,
			want:     map[string]string{"amaterasu-a": "1.0.0", "@s/amaterasu-b": "2.0.0"},
		},
		{name: "unreadable manifest", manifest: `{"dependencies":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := afero.NewMemMapFs()
			ws := New(fsys, "/root")
			if tt.manifest != "" {
				if err := afero.WriteFile(fsys, ws.ManifestPath(), []byte(tt.manifest), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			if got := ws.HasManifest(); got != (tt.manifest != "") {
				t.Errorf("HasManifest() = %v", got)
			}

			got := ws.Dependencies()
			if len(got) != len(tt.want) {
				t.Fatalf("Dependencies() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("Dependencies()[%q] = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
