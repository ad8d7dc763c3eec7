// SPDX-License-Identifier: MPL-2.0

package modules

import "testing"

func TestSimplify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "scope and prefix", in: "@scope/amaterasu-foo", want: "foo"},
		{name: "prefix only", in: "amaterasu-foo", want: "foo"},
		{name: "plain name", in: "bar", want: "bar"},
		{name: "scope only", in: "@scope/bar", want: "bar"},
		{name: "prefix must lead", in: "foo-amaterasu-bar", want: "foo-amaterasu-bar"},
		{name: "scope without slash", in: "@scope", want: "@scope"},
		{name: "nothing left after prefix", in: "amaterasu-", want: "amaterasu-"},
		{name: "nothing left after scope", in: "@scope/", want: "@scope/"},
		{name: "empty", in: "", want: ""},
		{name: "nested path kept", in: "@scope/amaterasu-a/b", want: "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Simplify(tt.in); got != tt.want {
				t.Errorf("Simplify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
