// SPDX-License-Identifier: MPL-2.0

// Package pluginver turns a plugin descriptor (a .uplugin file) into the
// build-time version constants that compiled sources use to gate
// version-dependent code.
//
// The pipeline has three stages, each total and side-effect free apart from
// the single descriptor read:
//
//  1. Reader locates <moduleDir>/../../<Plugin>.uplugin and loads it if present.
//  2. VersionFromDescriptor extracts "VersionName" and splits it into
//     major/minor/patch with independent parse-or-default per segment.
//  3. NewDefinitionSet builds the four scalar constants and the
//     <PREFIX>_VERSION_AT_LEAST(Major, Minor) macro.
//
// A missing descriptor or an unmatched key is not an error: the result is the
// well-formed 0.0.0 definition set.
//
// # Usage
//
//	reader := pluginver.NewOSReader()
//	desc, _ := reader.Locate(moduleDir, "Charon")
//	set := pluginver.NewDefinitionSet(pluginver.DefaultPrefix("Charon"), pluginver.VersionFromDescriptor(desc))
//	_ = pluginver.Render(os.Stdout, set, pluginver.FormatHeader)
package pluginver
