// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const (
	// FileName is the manifest file name looked up in package directories.
	FileName = "package.json"

	// MaxFileSize bounds manifest reads (1 MB).
	MaxFileSize int64 = 1 << 20
)

// ErrInvalidManifest is the sentinel wrapped by InvalidManifestError.
var ErrInvalidManifest = errors.New("invalid manifest")

type (
	// Maintainer is a package maintainer. Manifests describe people either as a
	// "Name <email> (url)" string or as an object; registry search output uses
	// "username" instead of "name". All forms decode into this type.
	Maintainer struct {
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
		URL   string `json:"url,omitempty"`
	}

	// Metadata holds the descriptive fields common to manifests and registry search
	// results.
	Metadata struct {
		Name        string       `json:"name"`
		Description string       `json:"description,omitempty"`
		Keywords    StringList   `json:"keywords,omitempty"`
		Maintainers []Maintainer `json:"maintainers,omitempty"`
		Version     string       `json:"version,omitempty"`
	}

	// Manifest is a parsed package.json.
	Manifest struct {
		Metadata

		// Main is the package entry point relative to the package directory.
		Main string `json:"main,omitempty"`

		// Exports is the raw exports map. It takes precedence over Main when it
		// exports the package root; see ExportsEntry.
		Exports json.RawMessage `json:"exports,omitempty"`

		Dependencies     map[string]string `json:"dependencies,omitempty"`
		DevDependencies  map[string]string `json:"devDependencies,omitempty"`
		PeerDependencies map[string]string `json:"peerDependencies,omitempty"`

		// order holds dependency names per field in document order.
		order map[DependencyField][]string
	}

	// StringList decodes either a JSON array of strings or a single string of
	// comma or space separated words. Hand-written manifests and older npm clients
	// use the latter for keywords.
	StringList []string

	// InvalidManifestError is returned when a manifest cannot be decoded.
	// It wraps ErrInvalidManifest for errors.Is() compatibility.
	InvalidManifestError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface for InvalidManifestError.
func (e *InvalidManifestError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid manifest: %v", e.Cause)
	}
	return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrInvalidManifest for errors.Is() compatibility.
func (e *InvalidManifestError) Unwrap() error { return ErrInvalidManifest }

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*l = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	return nil
}

// HasKeyword reports whether the metadata declares kw among its keywords.
func (m Metadata) HasKeyword(kw string) bool {
	return slices.Contains(m.Keywords, kw)
}

// String returns the npm person format: "Name <email> (url)".
func (p Maintainer) String() string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	if p.Email != "" {
		fmt.Fprintf(&sb, " <%s>", p.Email)
	}
	if p.URL != "" {
		fmt.Fprintf(&sb, " (%s)", p.URL)
	}
	return strings.TrimSpace(sb.String())
}

// UnmarshalJSON accepts both the string and the object person forms.
func (p *Maintainer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = parsePerson(s)
		return nil
	}

	var obj struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		URL      string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("maintainer: %w", err)
	}
	name := obj.Name
	if name == "" {
		name = obj.Username
	}
	*p = Maintainer{Name: name, Email: obj.Email, URL: obj.URL}
	return nil
}

// parsePerson splits "Name <email> (url)". Every part is optional.
func parsePerson(s string) Maintainer {
	var p Maintainer
	rest := s
	if i := strings.Index(rest, "("); i >= 0 {
		if j := strings.Index(rest[i:], ")"); j > 0 {
			p.URL = strings.TrimSpace(rest[i+1 : i+j])
			rest = rest[:i] + rest[i+j+1:]
		}
	}
	if i := strings.Index(rest, "<"); i >= 0 {
		if j := strings.Index(rest[i:], ">"); j > 0 {
			p.Email = strings.TrimSpace(rest[i+1 : i+j])
			rest = rest[:i] + rest[i+j+1:]
		}
	}
	p.Name = strings.TrimSpace(rest)
	return p
}

// Parse decodes manifest bytes. The path is only used in error messages.
func Parse(data []byte, path string) (*Manifest, error) {
	if int64(len(data)) > MaxFileSize {
		return nil, &InvalidManifestError{
			Path:  path,
			Cause: fmt.Errorf("file size %d bytes exceeds maximum %d bytes", len(data), MaxFileSize),
		}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &InvalidManifestError{Path: path, Cause: err}
	}

	var fields map[DependencyField]json.RawMessage
	if err := json.Unmarshal(data, &fields); err == nil {
		m.order = make(map[DependencyField][]string, len(dependencyFields))
		for _, f := range dependencyFields {
			m.order[f] = memberKeys(fields[f])
		}
	}
	return &m, nil
}

// Read loads and parses the manifest at path.
func Read(fsys afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, path)
}

// Exists reports whether a regular manifest file exists at path.
func Exists(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}
