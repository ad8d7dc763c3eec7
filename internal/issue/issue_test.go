// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{RegistryUnavailableId, false, "Module registry unavailable"},
		{PackageManagerNotFoundId, false, "Package manager not found"},
		{WorkspaceBootstrapFailedId, false, "module workspace"},
		{InstallFailedId, false, "Module installation failed"},
		{ModuleNotFoundId, false, "Module not found"},
		{AmbiguousModuleNameId, false, "Ambiguous module name"},
		{PermissionDeniedId, false, "Permission denied"},
		{NoModulesFoundId, false, "No modules found"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	issues := Values()

	if len(issues) != 9 {
		t.Fatalf("Values() returned %d issues, want 9", len(issues))
	}
	for i, issue := range issues {
		if issue.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want ordered ids", i, issue.Id())
		}
	}
}

func TestIssue_Title(t *testing.T) {
	if got := Get(RegistryUnavailableId).Title(); got != "Module registry unavailable" {
		t.Errorf("Title() = %q", got)
	}
	for _, issue := range Values() {
		if issue.Title() == "" {
			t.Errorf("issue %d has no heading", issue.Id())
		}
	}
	if got := (&Issue{mdMsg: "no heading\n## sub"}).Title(); got != "" {
		t.Errorf("Title() = %q, want empty", got)
	}
}

func TestIssue_ExtLinksAreCloned(t *testing.T) {
	issue := Get(RegistryUnavailableId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected external links")
	}

	original := links[0]
	links[0] = "modified"
	if got := issue.ExtLinks()[0]; got != original {
		t.Errorf("ExtLinks() should return a clone, got %q", got)
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(RegistryUnavailableId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.Contains(rendered, "amaterasu modules list --local-only") {
		t.Error("Render() output should contain the issue body")
	}
	if !strings.Contains(rendered, "## See also:") || !strings.Contains(rendered, "npm-search") {
		t.Error("Render() output should list the links")
	}

	rendered, err = Get(AmbiguousModuleNameId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("issues without links should not render a See also section")
	}
}
