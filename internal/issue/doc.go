// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error handling for the plugver CLI.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints; the issue catalog holds longer Markdown guidance that the
// CLI renders with glamour.
package issue
