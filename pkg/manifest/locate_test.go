// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"testing"

	"github.com/spf13/afero"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	for _, p := range []string{
		"/app/node_modules/pkg/package.json",
		"/app/package.json",
	} {
		if err := afero.WriteFile(fsys, p, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		start  string
		want   string
		wantOK bool
	}{
		{
			name:   "entry file next to manifest",
			start:  "/app/node_modules/pkg/index.js",
			want:   "/app/node_modules/pkg/package.json",
			wantOK: true,
		},
		{
			name:   "nested entry walks up",
			start:  "/app/node_modules/pkg/dist/esm/index.js",
			want:   "/app/node_modules/pkg/package.json",
			wantOK: true,
		},
		{
			name:   "starts at parent not at start path",
			start:  "/app/node_modules/pkg",
			want:   "/app/package.json",
			wantOK: true,
		},
		{
			name:   "no manifest up to root",
			start:  "/elsewhere/deep/file.js",
			wantOK: false,
		},
		{
			name:   "root terminates",
			start:  "/",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Locate(fsys, tt.start)
			if ok != tt.wantOK {
				t.Fatalf("Locate(%q) ok = %v, want %v", tt.start, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Locate(%q) = %q, want %q", tt.start, got, tt.want)
			}
		})
	}
}
