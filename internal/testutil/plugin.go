// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
)

// PluginTree is an on-disk plugin fixture:
//
//	<Root>/<Name>.uplugin
//	<Root>/Source/<Name>/        (ModuleDir)
type PluginTree struct {
	// Root is the plugin root directory holding the descriptor.
	Root string
	// Name is the plugin name (descriptor file stem).
	Name string
	// ModuleDir is the build module directory two levels below Root.
	ModuleDir string
	// DescriptorPath is the descriptor file location.
	DescriptorPath string
}

// NewPluginTree creates the module directory of a plugin named name under a
// fresh temporary directory. No descriptor is written.
func NewPluginTree(t testing.TB, name string) PluginTree {
	t.Helper()

	root := filepath.Join(t.TempDir(), name)
	tree := PluginTree{
		Root:           root,
		Name:           name,
		ModuleDir:      filepath.Join(root, "Source", name),
		DescriptorPath: filepath.Join(root, name+".uplugin"),
	}
	MustMkdirAll(t, tree.ModuleDir, 0o755)
	return tree
}

// WriteDescriptor writes a minimal descriptor carrying versionName.
func (p PluginTree) WriteDescriptor(t testing.TB, versionName string) {
	t.Helper()
	MustWriteFile(t, p.DescriptorPath, DescriptorContent(versionName))
}

// WriteRawDescriptor writes content verbatim as the descriptor.
func (p PluginTree) WriteRawDescriptor(t testing.TB, content string) {
	t.Helper()
	MustWriteFile(t, p.DescriptorPath, []byte(content))
}

// WriteDescriptor creates a plugin fixture named name with the given
// VersionName and returns it.
func WriteDescriptor(t testing.TB, name, versionName string) PluginTree {
	t.Helper()
	tree := NewPluginTree(t, name)
	tree.WriteDescriptor(t, versionName)
	return tree
}

// DescriptorContent returns a minimal descriptor document with versionName.
func DescriptorContent(versionName string) []byte {
	return fmt.Appendf(nil, `{
	"FileVersion": 3,
	"Version": 1,
	"VersionName": %q,
	"FriendlyName": "Test Plugin",
	"Modules": [
		{ "Name": "Test", "Type": "Runtime", "LoadingPhase": "Default" }
	]
}
`, versionName)
}
