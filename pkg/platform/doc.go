// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities, such as
// GOOS name constants and the Windows reserved file names a plugin
// descriptor cannot use.
package platform
