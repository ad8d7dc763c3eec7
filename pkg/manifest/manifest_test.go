// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

const sampleManifest = `{
  "name": "@ama-terasu/amaterasu-otter",
  "version": "1.4.2",
  "description": "Otter framework helpers",
  "keywords": ["amaterasu-module", "otter"],
  "main": "dist/index.js",
  "maintainers": [
    "Jane Doe <jane@example.com> (https://jane.example.com)",
    {"username": "bob", "email": "bob@example.com"},
    {"name": "Carol"}
  ],
  "dependencies": {"tslib": "^2.0.0"},
  "devDependencies": {"typescript": "~5.4.0"},
  "peerDependencies": {"@ama-terasu/cli": "*"}
}`

func TestParse(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(sampleManifest), "package.json")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if m.Name != "@ama-terasu/amaterasu-otter" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.Version != "1.4.2" {
		t.Errorf("Version = %q", m.Version)
	}
	if m.Main != "dist/index.js" {
		t.Errorf("Main = %q", m.Main)
	}
	if !m.HasKeyword("amaterasu-module") {
		t.Error("expected keyword amaterasu-module")
	}
	if m.HasKeyword("amaterasu") {
		t.Error("keyword match must be exact")
	}
	if m.Dependencies["tslib"] != "^2.0.0" || m.DevDependencies["typescript"] != "~5.4.0" ||
		m.PeerDependencies["@ama-terasu/cli"] != "*" {
		t.Errorf("dependency maps not decoded: %+v", m)
	}

	wantMaintainers := []Maintainer{
		{Name: "Jane Doe", Email: "jane@example.com", URL: "https://jane.example.com"},
		{Name: "bob", Email: "bob@example.com"},
		{Name: "Carol"},
	}
	if len(m.Maintainers) != len(wantMaintainers) {
		t.Fatalf("got %d maintainers, want %d", len(m.Maintainers), len(wantMaintainers))
	}
	for i, want := range wantMaintainers {
		if m.Maintainers[i] != want {
			t.Errorf("maintainer[%d] = %+v, want %+v", i, m.Maintainers[i], want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "name: x"},
		{name: "keywords wrong type", data: `{"name": "x", "keywords": 3}`},
		{name: "truncated", data: `{"name": "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data), "/p/package.json")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("error %v should wrap ErrInvalidManifest", err)
			}
			if !strings.Contains(err.Error(), "/p/package.json") {
				t.Errorf("error %q should name the file", err)
			}
		})
	}
}

func TestParseTooLarge(t *testing.T) {
	t.Parallel()

	data := make([]byte, MaxFileSize+1)
	if _, err := Parse(data, "big.json"); !errors.Is(err, ErrInvalidManifest) {
		t.Errorf("Parse() error = %v, want ErrInvalidManifest", err)
	}
}

func TestMaintainerString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Maintainer
		want string
	}{
		{Maintainer{Name: "Jane", Email: "j@x", URL: "https://x"}, "Jane <j@x> (https://x)"},
		{Maintainer{Name: "Jane"}, "Jane"},
		{Maintainer{Email: "j@x"}, "<j@x>"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	path := filepath.Join("/pkg", FileName)
	if err := afero.WriteFile(fsys, path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Read(fsys, path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if m.Name != "@ama-terasu/amaterasu-otter" {
		t.Errorf("Name = %q", m.Name)
	}

	if _, err := Read(fsys, "/missing/package.json"); err == nil {
		t.Error("Read() of missing file should fail")
	}
}

func TestExists(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/dir/package.json", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, "/file/package.json", []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if Exists(fsys, "/dir/package.json") {
		t.Error("a directory named package.json is not a manifest")
	}
	if !Exists(fsys, "/file/package.json") {
		t.Error("expected manifest to exist")
	}
	if Exists(fsys, "/nope/package.json") {
		t.Error("missing file reported as existing")
	}
}

func TestParseKeywordForms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want []string
	}{
		{name: "list", data: `{"keywords": ["amaterasu-module", "otter"]}`, want: []string{"amaterasu-module", "otter"}},
		{name: "single string", data: `{"keywords": "amaterasu-module"}`, want: []string{"amaterasu-module"}},
		{name: "comma separated", data: `{"keywords": "otter, amaterasu-module"}`, want: []string{"otter", "amaterasu-module"}},
		{name: "absent", data: `{}`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := Parse([]byte(tt.data), "package.json")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !slices.Equal(m.Keywords, tt.want) {
				t.Errorf("Keywords = %q, want %q", m.Keywords, tt.want)
			}
			if len(tt.want) > 0 && !m.HasKeyword("amaterasu-module") {
				t.Error("expected keyword amaterasu-module")
			}
		})
	}
}

func TestDependencyNames(t *testing.T) {
	t.Parallel()

	m, err := Parse([]byte(`{
		"dependencies": {"zeta": "1", "alpha": "2", "mid": "3"},
		"peerDependencies": {"@s/b": "*", "@s/a": "*"}
	}`), "package.json")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got, want := m.DependencyNames(FieldDependencies), []string{"zeta", "alpha", "mid"}; !slices.Equal(got, want) {
		t.Errorf("DependencyNames(dependencies) = %v, want %v", got, want)
	}
	if got, want := m.DependencyNames(FieldPeerDependencies), []string{"@s/b", "@s/a"}; !slices.Equal(got, want) {
		t.Errorf("DependencyNames(peerDependencies) = %v, want %v", got, want)
	}
	if got := m.DependencyNames(FieldDevDependencies); got != nil {
		t.Errorf("DependencyNames(devDependencies) = %v, want nil", got)
	}

	built := &Manifest{Dependencies: map[string]string{"b": "1", "a": "1"}}
	if got, want := built.DependencyNames(FieldDependencies), []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("DependencyNames() without recorded order = %v, want %v", got, want)
	}
}

func TestExportsEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		exports string
		want    string
		wantOK  bool
	}{
		{name: "absent", exports: ``},
		{name: "string", exports: `"./dist/index.js"`, want: "./dist/index.js", wantOK: true},
		{name: "root subpath", exports: `{".": "./dist/index.js", "./package.json": "./package.json"}`, want: "./dist/index.js", wantOK: true},
		{name: "subpaths without root", exports: `{"./feature": "./dist/feature.js"}`},
		{name: "conditions in order", exports: `{"import": "./esm/index.mjs", "require": "./cjs/index.cjs", "default": "./esm/index.mjs"}`, want: "./cjs/index.cjs", wantOK: true},
		{name: "default only", exports: `{"import": "./esm/index.mjs", "default": "./lib/index.js"}`, want: "./lib/index.js", wantOK: true},
		{name: "import only", exports: `{"import": "./esm/index.mjs"}`},
		{name: "nested conditions", exports: `{".": {"node": {"require": "./node/index.cjs"}, "default": "./index.js"}}`, want: "./node/index.cjs", wantOK: true},
		{name: "fallback array", exports: `[{"worker": "./worker.js"}, "./main.js"]`, want: "./main.js", wantOK: true},
		{name: "not relative", exports: `"dist/index.js"`},
		{name: "null", exports: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := `{"name": "amaterasu-x"}`
			if tt.exports != "" {
				data = `{"name": "amaterasu-x", "exports": ` + tt.exports + `}`
			}
			m, err := Parse([]byte(data), "package.json")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			got, ok := m.ExportsEntry(RequireConditions...)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExportsEntry() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
