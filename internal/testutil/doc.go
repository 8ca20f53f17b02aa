// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers cover environment variables (MustSetenv, MustUnsetenv, SetHomeDir),
// directories (MustChdir, MustMkdirAll) and plugin fixtures laid out the way
// the generator expects them (WriteDescriptor, NewPluginTree).
package testutil
