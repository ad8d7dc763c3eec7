// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/amaterasu/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/amaterasu/config.cue on macOS,
// %APPDATA%\amaterasu\config.cue on Windows), falling back to ./config.cue. Every key
// can be overridden through AMATERASU_-prefixed environment variables.
//
// Files are validated against an embedded CUE schema (config_schema.cue).
package config
