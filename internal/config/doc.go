// SPDX-License-Identifier: MPL-2.0

// Package config handles plugver configuration using Viper with CUE as the file format.
//
// Configuration is resolved from an explicit --config file, else ./plugver.cue in the
// working directory, else config.cue in the platform config directory
// (~/.config/plugver on Linux, ~/Library/Application Support/plugver on macOS,
// %APPDATA%\plugver on Windows). PLUGVER_* environment variables override file values.
//
// Files are validated against the embedded CUE schema (config_schema.cue) before
// being merged into Viper, so type errors are reported with file positions.
package config
