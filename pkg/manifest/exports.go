// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"slices"
	"strings"
)

// RequireConditions are the export conditions Node matches when a package is
// loaded with require(). "default" always matches and needs no listing.
var RequireConditions = []string{"require", "node"}

// ExportsEntry returns the file the exports field maps the package root to,
// relative to the package directory ("./dist/index.js"). ok is false when the
// manifest has no exports field or the field does not export the root under the
// given conditions.
//
// The field may be a string, a fallback array, a conditions object, or a subpath
// object whose "." entry holds any of those. Conditions are tried in the order the
// manifest lists them, and "default" matches regardless of conditions.
func (m *Manifest) ExportsEntry(conditions ...string) (string, bool) {
	root := m.Exports
	if jsonKind(root) == '{' {
		ms, ok := members(root)
		if !ok {
			return "", false
		}
		if len(ms) > 0 && strings.HasPrefix(ms[0].key, ".") {
			root = nil
			for _, mb := range ms {
				if mb.key == "." {
					root = mb.value
					break
				}
			}
		}
	}
	return exportTarget(root, conditions)
}

func exportTarget(raw json.RawMessage, conditions []string) (string, bool) {
	switch jsonKind(raw) {
	case '"':
		var target string
		if err := json.Unmarshal(raw, &target); err != nil || !strings.HasPrefix(target, "./") {
			return "", false
		}
		return target, true
	case '[':
		var fallbacks []json.RawMessage
		if err := json.Unmarshal(raw, &fallbacks); err != nil {
			return "", false
		}
		for _, fb := range fallbacks {
			if target, ok := exportTarget(fb, conditions); ok {
				return target, true
			}
		}
	case '{':
		ms, _ := members(raw)
		for _, mb := range ms {
			if mb.key != "default" && !slices.Contains(conditions, mb.key) {
				continue
			}
			if target, ok := exportTarget(mb.value, conditions); ok {
				return target, true
			}
		}
	}
	return "", false
}
