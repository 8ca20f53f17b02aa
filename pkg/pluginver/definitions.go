// SPDX-License-Identifier: MPL-2.0

package pluginver

import (
	"slices"
	"strconv"
	"strings"
)

// Name suffixes of the emitted constants.
const (
	MajorVersionSuffix  = "MAJOR_VERSION"
	MinorVersionSuffix  = "MINOR_VERSION"
	PatchVersionSuffix  = "PATCH_VERSION"
	VersionStringSuffix = "VERSION_STRING"
	AtLeastMacroSuffix  = "VERSION_AT_LEAST"
)

// macroParams are the formal parameters of the comparison macro.
var macroParams = []string{"Major", "Minor"}

type (
	// Definition is a single NAME=VALUE build constant.
	Definition struct {
		Name  string `json:"name" yaml:"name" toml:"name"`
		Value string `json:"value" yaml:"value" toml:"value"`
	}

	// Macro is a function-like build macro.
	Macro struct {
		Name   string
		Params []string
		Body   string
	}

	// DefinitionSet is the complete, immutable output of the emitter: the
	// major, minor, patch and version-string constants (in that order) and the
	// VERSION_AT_LEAST comparison macro. It is always fully populated.
	DefinitionSet struct {
		prefix    MacroPrefix
		version   SemanticVersion
		constants [4]Definition
		macro     Macro
	}
)

// String formats the definition as NAME=VALUE.
func (d Definition) String() string { return d.Name + "=" + d.Value }

// Signature returns the macro name with its parameter list, e.g. "P_VERSION_AT_LEAST(Major, Minor)".
func (m Macro) Signature() string {
	return m.Name + "(" + strings.Join(m.Params, ", ") + ")"
}

// String formats the macro the way host build definition lists expect:
// the signature followed by a space and the body.
func (m Macro) String() string { return m.Signature() + " " + m.Body }

// NewDefinitionSet builds the definition set for a version. It performs no
// I/O and cannot fail; prefix is used verbatim.
func NewDefinitionSet(prefix MacroPrefix, v SemanticVersion) DefinitionSet {
	major := prefix.Name(MajorVersionSuffix)
	minor := prefix.Name(MinorVersionSuffix)

	return DefinitionSet{
		prefix:  prefix,
		version: v,
		constants: [4]Definition{
			{Name: major, Value: strconv.Itoa(v.Major)},
			{Name: minor, Value: strconv.Itoa(v.Minor)},
			{Name: prefix.Name(PatchVersionSuffix), Value: strconv.Itoa(v.Patch)},
			{Name: prefix.Name(VersionStringSuffix), Value: quoteC(v.Text)},
		},
		macro: Macro{
			Name:   prefix.Name(AtLeastMacroSuffix),
			Params: slices.Clone(macroParams),
			Body: "((" + major + " > Major) || " +
				"(" + major + " == Major && " + minor + " >= Minor))",
		},
	}
}

// Prefix returns the macro prefix the set was built with.
func (s DefinitionSet) Prefix() MacroPrefix { return s.prefix }

// Version returns the version the set was built from.
func (s DefinitionSet) Version() SemanticVersion { return s.version }

// Constants returns a copy of the four scalar definitions.
func (s DefinitionSet) Constants() []Definition { return slices.Clone(s.constants[:]) }

// Macro returns a copy of the comparison macro.
func (s DefinitionSet) Macro() Macro {
	m := s.macro
	m.Params = slices.Clone(m.Params)
	return m
}

// Lines returns the four NAME=VALUE constants followed by the macro, in the
// order a host build's public definition list consumes them.
func (s DefinitionSet) Lines() []string {
	lines := make([]string, 0, len(s.constants)+1)
	for _, d := range s.constants {
		lines = append(lines, d.String())
	}
	return append(lines, s.macro.String())
}

// AtLeast evaluates the VERSION_AT_LEAST macro for the set's version.
func (s DefinitionSet) AtLeast(major, minor int) bool {
	return s.version.AtLeast(major, minor)
}

// quoteC wraps s in double quotes as a C string literal, escaping backslashes
// and double quotes.
func quoteC(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}
