// SPDX-License-Identifier: MPL-2.0

package pluginver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/plugver/plugver/pkg/platform"
)

// prefixSuffix is appended to the upper-cased plugin name to form the default prefix.
const prefixSuffix = "_PLUGIN"

var (
	// ErrInvalidPluginName is the sentinel error wrapped by InvalidPluginNameError.
	ErrInvalidPluginName = errors.New("invalid plugin name")
	// ErrInvalidMacroPrefix is the sentinel error wrapped by InvalidMacroPrefixError.
	ErrInvalidMacroPrefix = errors.New("invalid macro prefix")

	macroPrefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type (
	// PluginName is the file stem of a plugin descriptor (e.g., "Charon" for
	// Charon.uplugin). It must be non-empty, not whitespace-only, and must not
	// contain path separators.
	PluginName string

	// InvalidPluginNameError is returned when a PluginName fails validation.
	InvalidPluginNameError struct {
		Value  PluginName
		Reason string
	}

	// MacroPrefix is the C identifier prefix shared by every emitted constant
	// (e.g., "CHARON_PLUGIN" yields CHARON_PLUGIN_MAJOR_VERSION).
	MacroPrefix string

	// InvalidMacroPrefixError is returned when a MacroPrefix is not a valid C identifier.
	InvalidMacroPrefixError struct {
		Value MacroPrefix
	}
)

// String returns the string representation of the PluginName.
func (n PluginName) String() string { return string(n) }

// Validate returns an error if the PluginName cannot be used as a descriptor file stem.
func (n PluginName) Validate() error {
	s := string(n)
	switch {
	case strings.TrimSpace(s) == "":
		return &InvalidPluginNameError{Value: n, Reason: "must be non-empty"}
	case strings.ContainsAny(s, `/\`):
		return &InvalidPluginNameError{Value: n, Reason: "must not contain path separators"}
	case s == "." || s == "..":
		return &InvalidPluginNameError{Value: n, Reason: "must not be a relative directory reference"}
	case platform.IsWindowsReservedName(s):
		return &InvalidPluginNameError{Value: n, Reason: "is a reserved file name on Windows"}
	}
	return nil
}

// DescriptorFileName returns the descriptor file name for the plugin (e.g., "Charon.uplugin").
func (n PluginName) DescriptorFileName() string { return string(n) + DescriptorExt }

// Error implements the error interface.
func (e *InvalidPluginNameError) Error() string {
	return fmt.Sprintf("invalid plugin name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidPluginName for errors.Is() compatibility.
func (e *InvalidPluginNameError) Unwrap() error { return ErrInvalidPluginName }

// String returns the string representation of the MacroPrefix.
func (p MacroPrefix) String() string { return string(p) }

// Validate returns an error if the MacroPrefix is not a valid C identifier.
func (p MacroPrefix) Validate() error {
	if !macroPrefixPattern.MatchString(string(p)) {
		return &InvalidMacroPrefixError{Value: p}
	}
	return nil
}

// Name joins the prefix and a suffix with an underscore.
func (p MacroPrefix) Name(suffix string) string { return string(p) + "_" + suffix }

// Error implements the error interface.
func (e *InvalidMacroPrefixError) Error() string {
	return fmt.Sprintf("invalid macro prefix %q: must match %s", e.Value, macroPrefixPattern)
}

// Unwrap returns ErrInvalidMacroPrefix for errors.Is() compatibility.
func (e *InvalidMacroPrefixError) Unwrap() error { return ErrInvalidMacroPrefix }

// DefaultPrefix derives the macro prefix for a plugin: the name upper-cased,
// with every rune outside [A-Z0-9_] replaced by '_', followed by "_PLUGIN".
// A name starting with a digit gets a leading underscore.
func DefaultPrefix(name PluginName) MacroPrefix {
	var sb strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(string(name))) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte('_')
	}
	base := sb.String()
	if base == "" || unicode.IsDigit(rune(base[0])) {
		base = "_" + base
	}
	return MacroPrefix(base + prefixSuffix)
}
