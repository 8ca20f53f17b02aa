// SPDX-License-Identifier: MPL-2.0

package pluginver

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// FormatDefines renders one NAME=VALUE entry per line, macro last.
	FormatDefines Format = "defines"
	// FormatHeader renders a C/C++ header with #define directives.
	FormatHeader Format = "header"
	// FormatFlags renders -D compiler arguments, one per line. Arguments with
	// shell metacharacters (the version string, the macro) are bash-quoted.
	FormatFlags Format = "flags"
	// FormatEnv renders shell export statements for the scalar constants.
	FormatEnv Format = "env"
	// FormatJSON renders the set as a JSON document.
	FormatJSON Format = "json"
	// FormatYAML renders the set as a YAML document.
	FormatYAML Format = "yaml"
	// FormatTOML renders the set as a TOML document.
	FormatTOML Format = "toml"
	// FormatMarkdown renders a human-readable summary table.
	FormatMarkdown Format = "markdown"

	// DefaultFormat is used when no format is configured.
	DefaultFormat = FormatDefines
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

var allFormats = []Format{
	FormatDefines, FormatHeader, FormatFlags, FormatEnv,
	FormatJSON, FormatYAML, FormatTOML, FormatMarkdown,
}

type (
	// Format selects the artifact encoding of a DefinitionSet.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}
)

// Formats returns every supported format in display order.
func Formats() []Format { return slices.Clone(allFormats) }

// ParseFormat converts s (case-insensitive) to a Format. The empty string
// yields DefaultFormat.
func ParseFormat(s string) (Format, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultFormat, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Validate returns an error if the Format is not recognized.
func (f Format) Validate() error {
	if !slices.Contains(allFormats, f) {
		return &InvalidFormatError{Value: f}
	}
	return nil
}

// Ext returns the conventional file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatHeader:
		return ".h"
	case FormatFlags:
		return ".rsp"
	case FormatEnv:
		return ".env"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatTOML:
		return ".toml"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	names := make([]string, len(allFormats))
	for i, f := range allFormats {
		names[i] = string(f)
	}
	return fmt.Sprintf("invalid output format %q (expected one of: %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
