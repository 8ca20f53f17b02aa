// SPDX-License-Identifier: MPL-2.0

package pluginver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/syntax"
)

// generatedBanner marks rendered files that must not be edited by hand.
const generatedBanner = "Code generated by plugver. DO NOT EDIT."

type (
	// document is the structured (JSON/YAML/TOML) shape of a DefinitionSet.
	document struct {
		Prefix      string          `json:"prefix" yaml:"prefix" toml:"prefix"`
		Version     versionDocument `json:"version" yaml:"version" toml:"version"`
		Definitions []Definition    `json:"definitions" yaml:"definitions" toml:"definitions"`
		Macro       macroDocument   `json:"macro" yaml:"macro" toml:"macro"`
	}

	versionDocument struct {
		Major int    `json:"major" yaml:"major" toml:"major"`
		Minor int    `json:"minor" yaml:"minor" toml:"minor"`
		Patch int    `json:"patch" yaml:"patch" toml:"patch"`
		Text  string `json:"text" yaml:"text" toml:"text"`
	}

	macroDocument struct {
		Name   string   `json:"name" yaml:"name" toml:"name"`
		Params []string `json:"params" yaml:"params" toml:"params"`
		Body   string   `json:"body" yaml:"body" toml:"body"`
	}
)

// RenderBytes renders the set in the given format and returns the bytes.
func RenderBytes(set DefinitionSet, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, set, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render writes the set to w in the given format. Output is deterministic:
// equal sets always render to identical bytes.
func Render(w io.Writer, set DefinitionSet, format Format) error {
	var (
		out []byte
		err error
	)

	switch format {
	case FormatDefines:
		out = []byte(strings.Join(set.Lines(), "\n") + "\n")
	case FormatHeader:
		out = renderHeader(set)
	case FormatFlags:
		out, err = renderFlags(set)
	case FormatEnv:
		out, err = renderEnv(set)
	case FormatJSON:
		out, err = json.MarshalIndent(newDocument(set), "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	case FormatYAML:
		out, err = yaml.Marshal(newDocument(set))
	case FormatTOML:
		out, err = toml.Marshal(newDocument(set))
	case FormatMarkdown:
		out = renderMarkdown(set)
	default:
		return &InvalidFormatError{Value: format}
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write %s output: %w", format, err)
	}
	return nil
}

func newDocument(set DefinitionSet) document {
	v := set.Version()
	m := set.Macro()
	return document{
		Prefix:      set.Prefix().String(),
		Version:     versionDocument{Major: v.Major, Minor: v.Minor, Patch: v.Patch, Text: v.Text},
		Definitions: set.Constants(),
		Macro:       macroDocument{Name: m.Name, Params: m.Params, Body: m.Body},
	}
}

func renderHeader(set DefinitionSet) []byte {
	var sb strings.Builder
	sb.WriteString("// " + generatedBanner + "\n\n")
	sb.WriteString("#pragma once\n\n")
	for _, d := range set.Constants() {
		fmt.Fprintf(&sb, "#define %s %s\n", d.Name, d.Value)
	}
	m := set.Macro()
	fmt.Fprintf(&sb, "\n#define %s %s\n", m.Signature(), m.Body)
	return []byte(sb.String())
}

func renderFlags(set DefinitionSet) ([]byte, error) {
	var sb strings.Builder
	args := make([]string, 0, 5)
	for _, d := range set.Constants() {
		args = append(args, "-D"+d.String())
	}
	m := set.Macro()
	args = append(args, "-D"+m.Signature()+"="+m.Body)

	for _, arg := range args {
		quoted, err := shellArg(arg)
		if err != nil {
			return nil, err
		}
		sb.WriteString(quoted)
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

// shellMetachars are the characters that make a word need quoting in a
// POSIX shell or a compiler response file.
const shellMetachars = " \t\n'\"\\$`|&;<>()*?[]{}~#!"

// shellArg returns arg unchanged when it holds no shell metacharacters and
// bash-quoted otherwise.
func shellArg(arg string) (string, error) {
	if arg != "" && !strings.ContainsAny(arg, shellMetachars) {
		return arg, nil
	}
	quoted, err := syntax.Quote(arg, syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("quote %q: %w", arg, err)
	}
	return quoted, nil
}

// renderEnv exports the scalar constants. The version string is exported as
// raw text rather than as a C literal; the macro has no shell equivalent.
func renderEnv(set DefinitionSet) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# " + generatedBanner + "\n")
	constants := set.Constants()
	values := []string{constants[0].Value, constants[1].Value, constants[2].Value, set.Version().Text}
	for i, d := range constants {
		quoted, err := syntax.Quote(values[i], syntax.LangBash)
		if err != nil {
			return nil, fmt.Errorf("quote %s: %w", d.Name, err)
		}
		fmt.Fprintf(&sb, "export %s=%s\n", d.Name, quoted)
	}
	return []byte(sb.String()), nil
}

func renderMarkdown(set DefinitionSet) []byte {
	var sb strings.Builder
	v := set.Version()
	fmt.Fprintf(&sb, "# %s %s\n\n", set.Prefix(), v.Text)
	fmt.Fprintf(&sb, "Parsed as **%s**.\n\n", v.Triple())
	sb.WriteString("| Name | Value |\n|---|---|\n")
	for _, d := range set.Constants() {
		fmt.Fprintf(&sb, "| `%s` | `%s` |\n", d.Name, d.Value)
	}
	m := set.Macro()
	sb.WriteString("\n## Comparison macro\n\n```c\n")
	fmt.Fprintf(&sb, "#define %s %s\n", m.Signature(), m.Body)
	sb.WriteString("```\n")
	return []byte(sb.String())
}
