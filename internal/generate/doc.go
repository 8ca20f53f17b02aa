// SPDX-License-Identifier: MPL-2.0

// Package generate turns a build module directory and plugin name into a
// rendered definitions artifact.
//
// A Generator locates the plugin descriptor, derives the version constants
// and the VERSION_AT_LEAST macro, renders them in the requested format and
// writes the result either to a writer or to a file. File output is written
// atomically and only when its content changes, so build systems that track
// timestamps do not rebuild on an unchanged descriptor.
package generate
