// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ama-terasu/amaterasu/internal/config"
)

const (
	formatCUE  = "cue"
	formatTOML = "toml"
)

// newConfigCommand creates the `amaterasu config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage amaterasu configuration",
		Long: `Manage amaterasu configuration.

Configuration is stored in:
  - Linux: ~/.config/amaterasu/config.cue
  - macOS: ~/Library/Application Support/amaterasu/config.cue
  - Windows: %APPDATA%\amaterasu\config.cue

Every key can be overridden with an AMATERASU_ environment variable,
e.g. AMATERASU_REGISTRY_MODE=off.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Config.Load(cmd.Context(), app.loadOptions())
			if err != nil {
				return err
			}
			switch format {
			case formatCUE:
				fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			case formatTOML:
				out, err := config.GenerateTOML(cfg)
				if err != nil {
					return err
				}
				fmt.Fprint(app.stdout, out)
			default:
				return fmt.Errorf("unknown format %q (valid: %s, %s)", format, formatCUE, formatTOML)
			}
			return nil
		},
	}
	dumpCmd.Flags().StringVarP(&format, "format", "f", formatCUE, "output format: cue or toml")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, app.loadOptions())
	if err != nil {
		return err
	}
	path, _ := app.Config.Path(ctx, app.loadOptions())

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)
	if path != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	installRoot := cfg.InstallRoot
	if installRoot == "" {
		installRoot = SubtitleStyle.Render("(executable directory)")
	}

	for _, kv := range [][2]string{
		{"install_root", installRoot},
		{"package_manager.binary", cfg.PackageManager.Binary},
		{"registry.mode", cfg.Registry.Mode.String()},
		{"registry.url", cfg.Registry.URL},
		{"registry.timeout", cfg.Registry.Timeout},
		{"registry.page_size", strconv.Itoa(cfg.Registry.PageSize)},
		{"discovery.local_only", strconv.FormatBool(cfg.Discovery.LocalOnly)},
		{"discovery.concurrency", strconv.Itoa(cfg.Discovery.Concurrency)},
		{"ui.verbose", strconv.FormatBool(cfg.UI.Verbose)},
		{"ui.color_scheme", cfg.UI.ColorScheme.String()},
	} {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render(kv[0]), SuccessStyle.Render(kv[1]))
	}

	return nil
}

func showConfigPath(ctx context.Context, app *App) error {
	path, err := app.Config.Path(ctx, app.loadOptions())
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintln(app.stdout, path)
		return nil
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s/%s.%s %s\n", dir, config.ConfigFileName, config.ConfigFileExt, SubtitleStyle.Render("(not created yet)"))
	return nil
}
