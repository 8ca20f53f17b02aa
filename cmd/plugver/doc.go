// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for plugver.
//
// The root command wires configuration, logging and styling; generate, show
// and check resolve a plugin descriptor through internal/generate, and config
// manages the CUE configuration file.
package cmd
