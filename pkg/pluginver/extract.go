// SPDX-License-Identifier: MPL-2.0

package pluginver

import (
	_ "embed"
	"regexp"
	"strings"

	"github.com/plugver/plugver/pkg/cueutil"
)

// VersionNameKey is the descriptor field holding the human-readable version.
const VersionNameKey = "VersionName"

// utf8BOM is stripped before parsing; editors on Windows commonly prepend it.
const utf8BOM = "\ufeff"

//go:embed descriptor_schema.cue
var descriptorSchema []byte

// versionNamePattern matches "VersionName": "<value>" anywhere in raw text,
// tolerating whitespace around the colon.
var versionNamePattern = regexp.MustCompile(`"` + VersionNameKey + `"\s*:\s*"([^"]+)"`)

// descriptorFields is the projection of the descriptor decoded by the structured reader.
type descriptorFields struct {
	VersionName string `json:"VersionName"`
}

// VersionFromDescriptor extracts the plugin version from a descriptor. A nil
// descriptor, or one without a usable VersionName, yields FallbackVersion.
func VersionFromDescriptor(desc *Descriptor) SemanticVersion {
	if desc == nil {
		return FallbackVersion()
	}
	text, ok := ExtractVersionName(desc.Content, desc.Path)
	if !ok {
		return FallbackVersion()
	}
	return ParseVersion(text)
}

// ExtractVersionName looks up the top-level VersionName of a descriptor
// document. The document is read structurally first; only when it cannot be
// decoded (not JSON/CUE, conflicting duplicate keys, wrong value type,
// oversize) is the raw text scanned for the first "VersionName": "..." pair.
// A VersionName nested inside another object (for example a module entry) is
// not the plugin's version and is ignored when the document decodes.
// An empty value counts as no match. filename is used for diagnostics only.
func ExtractVersionName(content []byte, filename string) (string, bool) {
	text := strings.TrimPrefix(string(content), utf8BOM)

	result, err := cueutil.ParseAndDecode[descriptorFields](
		descriptorSchema,
		[]byte(text),
		"#Descriptor",
		cueutil.WithFilename(filename),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return scanVersionName(text)
	}
	if result.Value.VersionName == "" {
		return "", false
	}
	return result.Value.VersionName, true
}

// scanVersionName returns the first textual VersionName match.
func scanVersionName(text string) (string, bool) {
	m := versionNamePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
