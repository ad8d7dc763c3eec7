// SPDX-License-Identifier: MPL-2.0

package modules

import "regexp"

// displayNamePattern drops an optional "@scope/" segment followed by an optional
// naming prefix. The capture group is the display name.
var displayNamePattern = regexp.MustCompile(`^(?:@[^/]+/)?(?:` + regexp.QuoteMeta(NamePrefix) + `)?(.*)$`)

// Simplify derives the user-facing module name from a full package name.
// It never fails: when nothing remains after stripping, the full name is returned.
func Simplify(name string) string {
	m := displayNamePattern.FindStringSubmatch(name)
	if m == nil || m[1] == "" {
		return name
	}
	return m[1]
}
