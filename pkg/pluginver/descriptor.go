// SPDX-License-Identifier: MPL-2.0

package pluginver

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// DescriptorExt is the file extension of plugin descriptors.
const DescriptorExt = ".uplugin"

type (
	// Descriptor is the raw content of a plugin descriptor file. It is read
	// once per build pass and discarded after parsing.
	Descriptor struct {
		// Path is the location the content was read from.
		Path string
		// Content is the unparsed file text.
		Content []byte
	}

	// Reader loads plugin descriptors from a filesystem. The zero value is not
	// usable; construct with NewReader or NewOSReader.
	Reader struct {
		fs afero.Fs
	}
)

// DescriptorPath returns the descriptor location for a build module directory:
// <moduleDir>/../../<name>.uplugin. Build modules live two levels below the
// plugin root (Plugins/<Plugin>/Source/<Module>).
func DescriptorPath(moduleDir string, name PluginName) string {
	return filepath.Join(moduleDir, "..", "..", name.DescriptorFileName())
}

// NewReader creates a Reader over the given filesystem.
func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// NewOSReader creates a Reader over the host filesystem.
func NewOSReader() *Reader {
	return NewReader(afero.NewOsFs())
}

// Read loads the descriptor at path. It reports false when the path does not
// exist, is a directory, or cannot be read; absence is an expected outcome
// and is never surfaced as an error.
func (r *Reader) Read(path string) (*Descriptor, bool) {
	info, err := r.fs.Stat(path)
	if err != nil || info.IsDir() {
		return nil, false
	}
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, false
	}
	return &Descriptor{Path: path, Content: content}, true
}

// Locate resolves the descriptor path for moduleDir and reads it.
func (r *Reader) Locate(moduleDir string, name PluginName) (*Descriptor, bool) {
	return r.Read(DescriptorPath(moduleDir, name))
}
