// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/mod/semver"
	"golang.org/x/sync/singleflight"

	"github.com/ama-terasu/amaterasu/internal/issue"
	"github.com/ama-terasu/amaterasu/internal/resolve"
	"github.com/ama-terasu/amaterasu/internal/runner"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

// DefaultPackageManager is the binary used when none is configured.
const DefaultPackageManager = "npm"

var (
	// ErrBootstrap is wrapped by failures to create or initialize the workspace.
	ErrBootstrap = errors.New("workspace bootstrap failed")

	// ErrInstall is wrapped by failures of the install command itself.
	ErrInstall = errors.New("module install failed")
)

type (
	// Installer materializes modules into a Workspace with the package manager.
	//
	// Install calls are serialized: identical concurrent requests share one run,
	// distinct requests take turns on a mutex, and on Linux an flock on the
	// workspace lock file keeps other amaterasu processes out when the workspace
	// lives on the OS filesystem.
	Installer struct {
		ws     *Workspace
		runner runner.Runner
		binary string
		args   []string
		stdout io.Writer
		stderr io.Writer

		mu    sync.Mutex
		group singleflight.Group
	}

	// InstallerOption configures an Installer during construction.
	InstallerOption func(*Installer)

	// InstallResult describes a completed installation.
	InstallResult struct {
		Name    string
		Version string
		// Workspace is the directory the module was installed into.
		Workspace string
		// Bootstrapped is true when this call created the workspace manifest.
		Bootstrapped bool
		// Pinned is true when Version is an exact semantic version rather than a
		// tag or range.
		Pinned bool
		// Output is the package manager's captured stdout.
		Output string
	}
)

// WithPackageManager sets the package manager binary and leading arguments.
func WithPackageManager(binary string, args ...string) InstallerOption {
	return func(i *Installer) {
		i.binary = binary
		i.args = slices.Clone(args)
	}
}

// WithOutput streams the package manager's output while it runs.
func WithOutput(stdout, stderr io.Writer) InstallerOption {
	return func(i *Installer) {
		i.stdout = stdout
		i.stderr = stderr
	}
}

// NewInstaller creates an Installer for ws.
func NewInstaller(ws *Workspace, r runner.Runner, opts ...InstallerOption) *Installer {
	i := &Installer{ws: ws, runner: r, binary: DefaultPackageManager}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// RequestedVersion returns the version an install of rec would request: version,
// else the record's version, else "latest".
func RequestedVersion(rec modules.Record, version string) string {
	switch {
	case version != "":
		return version
	case rec.Version != "":
		return rec.Version
	default:
		return modules.LatestVersion
	}
}

// Install bootstraps the workspace if needed and installs rec at the requested
// version, pinned exactly in the workspace manifest. Failures are returned as
// *issue.ActionableError wrapping ErrBootstrap or ErrInstall.
//
// Concurrent calls for the same name and version share the run started by the first
// caller, including its context.
func (i *Installer) Install(ctx context.Context, rec modules.Record, version string) (*InstallResult, error) {
	version = RequestedVersion(rec, version)

	if err := resolve.ValidateName(rec.Name); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("install module").
			WithResource(rec.Name).
			WithIssue(issue.ModuleNotFoundId).
			Wrap(fmt.Errorf("%w: %w", ErrInstall, err)).
			BuildError()
	}

	ch := i.group.DoChan(rec.Name+"@"+version, func() (any, error) {
		return i.install(ctx, rec.Name, version)
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		res := *r.Val.(*InstallResult)
		return &res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (i *Installer) install(ctx context.Context, name, version string) (*InstallResult, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	lock, err := i.lockWorkspace()
	switch {
	case errors.Is(err, errFlockUnavailable):
		slog.Debug("cross-process workspace lock unavailable", "workspace", i.ws.Dir())
	case err != nil:
		return nil, i.bootstrapError("lock workspace", err)
	default:
		defer lock.Release()
	}

	bootstrapped, err := i.bootstrap(ctx)
	if err != nil {
		return nil, err
	}

	target := name + "@" + version
	slog.Debug("installing module", "module", target, "workspace", i.ws.Dir())

	res, err := i.run(ctx, "install", "--save-exact", target)
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("install module").
			WithResource(target).
			Wrap(fmt.Errorf("%w: %w", ErrInstall, err))
		switch {
		case errors.Is(err, exec.ErrNotFound):
			ec.WithIssue(issue.PackageManagerNotFoundId).
				WithSuggestion(fmt.Sprintf("Install %s or set package_manager.binary in the configuration", i.binary))
		case errors.Is(err, fs.ErrPermission):
			ec.WithIssue(issue.PermissionDeniedId)
		default:
			ec.WithIssue(issue.InstallFailedId).
				WithSuggestion("Check that the version exists: " + i.binary + " view " + name + " versions")
		}
		return nil, ec.BuildError()
	}

	return &InstallResult{
		Name:         name,
		Version:      version,
		Workspace:    i.ws.Dir(),
		Bootstrapped: bootstrapped,
		Pinned:       isExactVersion(version),
		Output:       string(res.Stdout),
	}, nil
}

// bootstrap creates the workspace directory and manifest when the manifest is
// missing. It reports whether it did anything.
func (i *Installer) bootstrap(ctx context.Context) (bool, error) {
	if i.ws.HasManifest() {
		return false, nil
	}

	if err := i.ws.fs.MkdirAll(i.ws.Dir(), 0o755); err != nil {
		return false, i.bootstrapError("create workspace", err)
	}

	if _, err := i.run(ctx, "init", "--yes"); err != nil {
		return false, i.bootstrapError("initialize workspace", err)
	}

	if !i.ws.HasManifest() {
		return false, i.bootstrapError("initialize workspace",
			fmt.Errorf("%s init did not create %s", i.binary, i.ws.ManifestPath()))
	}

	slog.Debug("workspace bootstrapped", "workspace", i.ws.Dir())
	return true, nil
}

// lockWorkspace takes the cross-process lock. The flock needs a real file
// descriptor, so a workspace on any filesystem other than the OS one runs under the
// in-process mutex alone and reports errFlockUnavailable.
func (i *Installer) lockWorkspace() (*fileLock, error) {
	if _, ok := i.ws.fs.(*afero.OsFs); !ok {
		return nil, errFlockUnavailable
	}
	return acquireLock(i.ws.LockPath())
}

func (i *Installer) bootstrapError(op string, err error) error {
	id := issue.WorkspaceBootstrapFailedId
	switch {
	case errors.Is(err, fs.ErrPermission):
		id = issue.PermissionDeniedId
	case errors.Is(err, exec.ErrNotFound):
		id = issue.PackageManagerNotFoundId
	}
	return issue.NewErrorContext().
		WithOperation(op).
		WithResource(i.ws.Dir()).
		WithIssue(id).
		Wrap(fmt.Errorf("%w: %w", ErrBootstrap, err)).
		BuildError()
}

func (i *Installer) run(ctx context.Context, args ...string) (runner.Result, error) {
	return i.runner.Run(ctx, runner.Command{
		Name:   i.binary,
		Args:   append(slices.Clone(i.args), args...),
		Dir:    i.ws.Dir(),
		Stdout: i.stdout,
		Stderr: i.stderr,
	})
}

// isExactVersion reports whether v names a single release ("1.2.3", "v1.2.3-rc.1")
// rather than a dist-tag or range.
func isExactVersion(v string) bool {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.IsValid(v) && semver.Canonical(v) == strings.SplitN(v, "+", 2)[0]
}
