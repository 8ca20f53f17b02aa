// SPDX-License-Identifier: MPL-2.0

// Package types defines small value types shared by the CLI, configuration and
// generator layers. It imports only the standard library.
package types
