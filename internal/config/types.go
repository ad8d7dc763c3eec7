// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// RegistryModeCLI queries the registry through the package manager binary.
	RegistryModeCLI RegistryMode = "cli"
	// RegistryModeHTTP queries the registry search endpoint directly.
	RegistryModeHTTP RegistryMode = "http"
	// RegistryModeOff disables the registry; every listing is local only.
	RegistryModeOff RegistryMode = "off"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultRegistryURL is the public npm registry.
	DefaultRegistryURL = "https://registry.npmjs.org"
	// DefaultRegistryTimeout bounds one registry search.
	DefaultRegistryTimeout = "30s"
	// DefaultPageSize is the HTTP search page size.
	DefaultPageSize = 250
	// DefaultConcurrency bounds parallel manifest resolution.
	DefaultConcurrency = 8
	// DefaultPackageManager is the package manager command line.
	DefaultPackageManager = "npm"
)

var (
	// ErrInvalidRegistryMode is returned when a RegistryMode value is not recognized.
	ErrInvalidRegistryMode = errors.New("invalid registry mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RegistryMode selects how the registry is searched.
	RegistryMode string

	// InvalidRegistryModeError is returned when a RegistryMode value is not recognized.
	// It wraps ErrInvalidRegistryMode for errors.Is() compatibility.
	InvalidRegistryModeError struct {
		Value RegistryMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// InstallRoot is the host installation directory. Empty means the
		// directory of the running executable.
		InstallRoot string `json:"install_root" mapstructure:"install_root" toml:"install_root"`
		// PackageManager configures the package manager invocation
		PackageManager PackageManagerConfig `json:"package_manager" mapstructure:"package_manager" toml:"package_manager"`
		// Registry configures remote module search
		Registry RegistryConfig `json:"registry" mapstructure:"registry" toml:"registry"`
		// Discovery configures catalogue building
		Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery" toml:"discovery"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui"`
	}

	// PackageManagerConfig configures the package manager.
	PackageManagerConfig struct {
		// Binary is the command line used to invoke the package manager, for
		// example "npm" or "pnpm --silent". It is split with shell word rules.
		Binary string `json:"binary" mapstructure:"binary" toml:"binary"`
	}

	// RegistryConfig configures remote module search.
	RegistryConfig struct {
		Mode     RegistryMode `json:"mode" mapstructure:"mode" toml:"mode"`
		URL      string       `json:"url" mapstructure:"url" toml:"url"`
		Timeout  string       `json:"timeout" mapstructure:"timeout" toml:"timeout"`
		PageSize int          `json:"page_size" mapstructure:"page_size" toml:"page_size"`
	}

	// DiscoveryConfig configures catalogue building.
	DiscoveryConfig struct {
		// LocalOnly skips the registry for every listing
		LocalOnly bool `json:"local_only" mapstructure:"local_only" toml:"local_only"`
		// Concurrency bounds parallel manifest resolution
		Concurrency int `json:"concurrency" mapstructure:"concurrency" toml:"concurrency"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PackageManager: PackageManagerConfig{Binary: DefaultPackageManager},
		Registry: RegistryConfig{
			Mode:     RegistryModeCLI,
			URL:      DefaultRegistryURL,
			Timeout:  DefaultRegistryTimeout,
			PageSize: DefaultPageSize,
		},
		Discovery: DiscoveryConfig{Concurrency: DefaultConcurrency},
		UI:        UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// String returns the string representation of the RegistryMode.
func (m RegistryMode) String() string { return string(m) }

// Validate returns nil if the RegistryMode is one of the defined modes,
// or an error wrapping ErrInvalidRegistryMode if it is not.
func (m RegistryMode) Validate() error {
	switch m {
	case RegistryModeCLI, RegistryModeHTTP, RegistryModeOff:
		return nil
	default:
		return &InvalidRegistryModeError{Value: m}
	}
}

// Error implements the error interface.
func (e *InvalidRegistryModeError) Error() string {
	return fmt.Sprintf("invalid registry mode %q (valid: cli, http, off)", e.Value)
}

// Unwrap returns ErrInvalidRegistryMode so errors.Is works.
func (e *InvalidRegistryModeError) Unwrap() error { return ErrInvalidRegistryMode }

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Validate returns nil if the ColorScheme is one of the defined schemes,
// or an error wrapping ErrInvalidColorScheme if it is not.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so errors.Is works.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// RegistryTimeout parses Registry.Timeout. An empty or unparsable value yields
// the default timeout.
func (c *Config) RegistryTimeout() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.Registry.Timeout))
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultRegistryTimeout)
	}
	return d
}

// Validate checks constraints that survive environment overrides, which
// bypass the CUE schema.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Registry.Mode.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.PackageManager.Binary) == "" {
		errs = append(errs, errors.New("package_manager.binary must not be empty"))
	}
	if c.Registry.Timeout != "" {
		if _, err := time.ParseDuration(c.Registry.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("registry.timeout: %w", err))
		}
	}
	if c.Discovery.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("discovery.concurrency must not be negative, got %d", c.Discovery.Concurrency))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field error(s): %v", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
