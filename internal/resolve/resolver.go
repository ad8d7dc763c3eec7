// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/ama-terasu/amaterasu/pkg/manifest"
)

const (
	// NodeModulesDir is the per-directory package folder searched by the resolver.
	NodeModulesDir = "node_modules"

	defaultEntry = "index.js"
)

var (
	// ErrNotResolvable is returned when no root contains a loadable package.
	ErrNotResolvable = errors.New("package not resolvable")

	// ErrInvalidPackageName is returned for names that cannot denote a package directory.
	ErrInvalidPackageName = errors.New("invalid package name")
)

type (
	// Resolver maps a package name to the entry file it loads from, searching the
	// given package roots in order.
	Resolver interface {
		Resolve(name string, roots []string) (string, error)
	}

	// NodeResolver resolves packages the way Node.js does for bare specifiers:
	// the first root holding <root>/<name>/package.json with a loadable entry wins.
	NodeResolver struct {
		fs afero.Fs
	}

	// NotResolvableError is returned when name was not found under any root.
	// It wraps ErrNotResolvable for errors.Is() compatibility.
	NotResolvableError struct {
		Name  string
		Roots []string
	}

	// InvalidPackageNameError is returned when a name fails validation.
	// It wraps ErrInvalidPackageName for errors.Is() compatibility.
	InvalidPackageNameError struct {
		Name   string
		Reason string
	}
)

// Error implements the error interface for NotResolvableError.
func (e *NotResolvableError) Error() string {
	return fmt.Sprintf("cannot resolve package %q (searched %d roots)", e.Name, len(e.Roots))
}

// Unwrap returns ErrNotResolvable for errors.Is() compatibility.
func (e *NotResolvableError) Unwrap() error { return ErrNotResolvable }

// Error implements the error interface for InvalidPackageNameError.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

// NewNodeResolver creates a resolver reading from fsys.
func NewNodeResolver(fsys afero.Fs) *NodeResolver {
	return &NodeResolver{fs: fsys}
}

// Resolve returns the entry file of the package. The root export under the
// require conditions wins when it names an existing file. Otherwise the entry is
// the manifest's main field (tried as a file, with a .js or .json extension, then
// as a directory holding index.js), falling back to index.js in the package
// directory.
//
// A package directory whose manifest cannot be parsed stops the search with that
// error, as Node does.
func (r *NodeResolver) Resolve(name string, roots []string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	for _, root := range roots {
		dir := filepath.Join(root, filepath.FromSlash(name))
		manifestPath := filepath.Join(dir, manifest.FileName)
		if !manifest.Exists(r.fs, manifestPath) {
			continue
		}

		m, err := manifest.Read(r.fs, manifestPath)
		if err != nil {
			return "", err
		}

		if entry, ok := r.entry(dir, m); ok {
			return entry, nil
		}
	}

	return "", &NotResolvableError{Name: name, Roots: roots}
}

func (r *NodeResolver) entry(dir string, m *manifest.Manifest) (string, bool) {
	if exported, ok := m.ExportsEntry(manifest.RequireConditions...); ok {
		target := filepath.Join(dir, filepath.FromSlash(exported))
		if within(dir, target) && r.isFile(target) {
			return target, true
		}
	}

	if m.Main != "" {
		target := filepath.Join(dir, filepath.FromSlash(m.Main))
		if within(dir, target) {
			for _, candidate := range []string{
				target,
				target + ".js",
				target + ".json",
				filepath.Join(target, defaultEntry),
			} {
				if r.isFile(candidate) {
					return candidate, true
				}
			}
		}
	}

	candidate := filepath.Join(dir, defaultEntry)
	if r.isFile(candidate) {
		return candidate, true
	}
	return "", false
}

func (r *NodeResolver) isFile(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// within reports whether target stays inside dir.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ValidateName checks that name is a bare package name: "name" or "@scope/name".
func ValidateName(name string) error {
	invalid := func(reason string) error {
		return &InvalidPackageNameError{Name: name, Reason: reason}
	}

	switch {
	case name == "":
		return invalid("name is empty")
	case strings.HasPrefix(name, "/") || filepath.IsAbs(name):
		return invalid("name must not be an absolute path")
	case strings.ContainsRune(name, '\\'):
		return invalid("name must not contain backslashes")
	}

	parts := strings.Split(name, "/")
	if strings.HasPrefix(name, "@") {
		if len(parts) != 2 {
			return invalid("scoped names must have the form @scope/name")
		}
	} else if len(parts) != 1 {
		return invalid("unscoped names must not contain '/'")
	}

	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return invalid("name must not contain empty, '.' or '..' segments")
		}
	}
	if strings.HasPrefix(parts[len(parts)-1], ".") {
		return invalid("name must not start with '.'")
	}
	return nil
}

// HostRoots returns the package roots Node would search from dir: dir/node_modules,
// then the node_modules folder of every ancestor up to the filesystem root.
// Directories already named node_modules are skipped.
func HostRoots(dir string) []string {
	var roots []string
	current := filepath.Clean(dir)
	for {
		if filepath.Base(current) != NodeModulesDir {
			roots = append(roots, filepath.Join(current, NodeModulesDir))
		}
		parent := filepath.Dir(current)
		if parent == current {
			return roots
		}
		current = parent
	}
}
