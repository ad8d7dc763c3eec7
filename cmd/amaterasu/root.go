// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ama-terasu/amaterasu/internal/config"
	"github.com/ama-terasu/amaterasu/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "amaterasu",
		Short: "An extensible command-line tool built from npm modules",
		Long: TitleStyle.Render("amaterasu") + SubtitleStyle.Render(" - an extensible command-line tool") + `

amaterasu is extended by modules: npm packages tagged with the
"amaterasu-module" keyword. Modules declared by the installation are
available right away; modules published to the registry can be
installed on demand into a side workspace next to the installation.

` + SubtitleStyle.Render("Examples:") + `
  amaterasu modules list              List installed and available modules
  amaterasu modules list --local-only List installed modules without the registry
  amaterasu modules install foo       Install amaterasu-foo
  amaterasu modules info foo          Show details about a module
  amaterasu config show               Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app.initLogging(cmd.Context())
			return nil
		},
	}

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $HOME/.config/amaterasu/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.flags.installRoot, "install-root", "", "host installation directory (default is the executable's directory)")

	rootCmd.AddCommand(newModulesCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

// initLogging applies ui settings from the configuration. A configuration that
// fails to load is reported by the command that needs it.
func (a *App) initLogging(ctx context.Context) {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err == nil {
		if !a.flags.verbose {
			a.flags.verbose = cfg.UI.Verbose
		}
		switch cfg.UI.ColorScheme {
		case config.ColorSchemeDark:
			lipgloss.SetHasDarkBackground(true)
		case config.ColorSchemeLight:
			lipgloss.SetHasDarkBackground(false)
		}
	}
	setupLogging(a.stderr, a.flags.verbose)
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the amaterasu version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintf(app.stdout, "%s %s\n", config.AppName, versionString())
			return nil
		},
	}
}

// versionString returns a formatted version string for display.
func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the CLI and returns the process exit code.
func Run() int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		return 1
	}
	return 0
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run())
}

// handleError renders command errors. Actionable errors get their suggestions;
// anything else goes through fang's default styling.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fang.DefaultErrorHandler(w, styles, err)
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(ae, a.flags.verbose))
	if help := ae.Issue(); help != nil && a.flags.verbose {
		if rendered, rerr := help.Render("auto"); rerr == nil {
			fmt.Fprint(w, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display. In verbose mode an
// ActionableError includes its full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
