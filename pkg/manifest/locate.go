// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Locate finds the nearest manifest above startPath. The search begins in the
// parent directory of startPath and walks up until the filesystem root, where
// stepping up no longer changes the directory.
func Locate(fsys afero.Fs, startPath string) (string, bool) {
	current := filepath.Clean(startPath)
	for {
		dir := filepath.Dir(current)
		if dir == current {
			return "", false
		}

		candidate := filepath.Join(dir, FileName)
		if Exists(fsys, candidate) {
			return candidate, true
		}
		current = dir
	}
}
