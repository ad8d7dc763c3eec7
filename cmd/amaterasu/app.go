// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ama-terasu/amaterasu/internal/catalog"
	"github.com/ama-terasu/amaterasu/internal/config"
	"github.com/ama-terasu/amaterasu/internal/issue"
	"github.com/ama-terasu/amaterasu/internal/registry"
	"github.com/ama-terasu/amaterasu/internal/resolve"
	"github.com/ama-terasu/amaterasu/internal/runner"
	"github.com/ama-terasu/amaterasu/internal/workspace"
	"github.com/ama-terasu/amaterasu/pkg/modules"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler receives an App and delegates to its
	// services.
	App struct {
		Config  ConfigProvider
		Modules ModuleService
		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
		flags   rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Modules ModuleService
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// Request carries the per-invocation inputs every ModuleService call needs.
	Request struct {
		// ConfigPath is the explicit --config value.
		ConfigPath string
		// InstallRoot overrides the configured install root when set.
		InstallRoot string
		// LocalOnly skips the registry.
		LocalOnly bool
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Path(ctx context.Context, opts config.LoadOptions) (string, error)
	}

	// ModuleService lists and installs modules.
	ModuleService interface {
		List(ctx context.Context, req Request) (modules.Catalogue, error)
		Install(ctx context.Context, req Request, rec modules.Record, version string) (*workspace.InstallResult, error)
	}

	rootFlags struct {
		verbose     bool
		configPath  string
		installRoot string
	}

	// appModuleService builds the discovery stack from configuration on every
	// call, so a listing after an install sees the new module.
	appModuleService struct {
		config ConfigProvider
		fs     afero.Fs
		runner runner.Runner
		stderr io.Writer
	}

	moduleStack struct {
		builder   *catalog.Builder
		installer *workspace.Installer
		localOnly bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Modules == nil {
		deps.Modules = &appModuleService{
			config: deps.Config,
			fs:     afero.NewOsFs(),
			runner: runner.ExecRunner{},
			stderr: deps.Stderr,
		}
	}

	return &App{
		Config:  deps.Config,
		Modules: deps.Modules,
		stdin:   deps.Stdin,
		stdout:  deps.Stdout,
		stderr:  deps.Stderr,
	}, nil
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: a.flags.configPath}
}

func (a *App) request(localOnly bool) Request {
	return Request{
		ConfigPath:  a.flags.configPath,
		InstallRoot: a.flags.installRoot,
		LocalOnly:   localOnly,
	}
}

// List builds the module catalogue.
func (s *appModuleService) List(ctx context.Context, req Request) (modules.Catalogue, error) {
	stack, err := s.stack(ctx, req)
	if err != nil {
		return nil, err
	}
	return stack.builder.Build(ctx, catalog.Options{LocalOnly: req.LocalOnly || stack.localOnly})
}

// Install installs rec into the workspace.
func (s *appModuleService) Install(ctx context.Context, req Request, rec modules.Record, version string) (*workspace.InstallResult, error) {
	stack, err := s.stack(ctx, req)
	if err != nil {
		return nil, err
	}
	return stack.installer.Install(ctx, rec, version)
}

func (s *appModuleService) stack(ctx context.Context, req Request) (*moduleStack, error) {
	cfg, err := s.config.Load(ctx, config.LoadOptions{ConfigFilePath: req.ConfigPath})
	if err != nil {
		return nil, err
	}

	root, err := installRoot(req.InstallRoot, cfg.InstallRoot)
	if err != nil {
		return nil, err
	}

	pm, pmArgs, err := runner.ParseCommandLine(cfg.PackageManager.Binary)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read package manager setting").
			WithResource(cfg.PackageManager.Binary).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Set package_manager.binary to a command such as \"npm\" or \"pnpm --silent\"").
			Wrap(err).
			BuildError()
	}

	ws := workspace.New(s.fs, root)
	reader := resolve.NewReader(s.fs, resolve.NewNodeResolver(s.fs), ws.NodeModulesDir(), resolve.HostRoots(root))

	opts := []catalog.BuilderOption{catalog.WithConcurrency(cfg.Discovery.Concurrency)}
	if searcher := s.searcher(cfg, pm, pmArgs); searcher != nil {
		opts = append(opts, catalog.WithRegistry(registry.NewClient(searcher, cfg.RegistryTimeout())))
	}

	return &moduleStack{
		builder: catalog.NewBuilder(s.fs, root, ws, reader, opts...),
		installer: workspace.NewInstaller(ws, s.runner,
			workspace.WithPackageManager(pm, pmArgs...),
			workspace.WithOutput(nil, s.stderr),
		),
		localOnly: cfg.Discovery.LocalOnly || cfg.Registry.Mode == config.RegistryModeOff,
	}, nil
}

func (s *appModuleService) searcher(cfg *config.Config, pm string, pmArgs []string) registry.Searcher {
	switch cfg.Registry.Mode {
	case config.RegistryModeHTTP:
		return registry.NewHTTPSearcher(
			registry.WithBaseURL(cfg.Registry.URL),
			registry.WithPageSize(cfg.Registry.PageSize),
			registry.WithUserAgent(config.AppName+"/"+Version),
		)
	case config.RegistryModeOff:
		return nil
	default:
		return registry.NewCLISearcher(s.runner, pm, pmArgs...)
	}
}

// installRoot picks the flag, then the configured value, then the directory of
// the running executable.
func installRoot(flagValue, configured string) (string, error) {
	for _, dir := range []string{flagValue, configured} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate install root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
