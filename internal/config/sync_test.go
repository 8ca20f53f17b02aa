// SPDX-License-Identifier: MPL-2.0

package config

import (
	"reflect"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// These tests keep the Go struct JSON tags and the CUE schema field names
// aligned, so a renamed field cannot be silently ignored at load time.

func cueFieldNames(t *testing.T, definition string) map[string]bool {
	t.Helper()

	schema := cuecontext.New().CompileString(configSchema)
	if schema.Err() != nil {
		t.Fatalf("failed to compile CUE schema: %v", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath(definition))
	if def.Err() != nil {
		t.Fatalf("failed to lookup CUE definition %s: %v", definition, def.Err())
	}

	iter, err := def.Fields(cue.Definitions(false), cue.Optional(true))
	if err != nil {
		t.Fatalf("failed to iterate CUE fields: %v", err)
	}

	fields := make(map[string]bool)
	for iter.Next() {
		sel := iter.Selector()
		if sel.LabelType().IsHidden() || sel.IsDefinition() {
			continue
		}
		fields[strings.TrimSuffix(sel.String(), "?")] = true
	}
	return fields
}

func goJSONTags(typ reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name != "" && name != "-" {
			fields[name] = true
		}
	}
	return fields
}

func assertFieldsSync(t *testing.T, definition string, typ reflect.Type) {
	t.Helper()

	cueFields := cueFieldNames(t, definition)
	goFields := goJSONTags(typ)

	for field := range cueFields {
		if !goFields[field] {
			t.Errorf("[%s] CUE field %q not found in Go struct %s", definition, field, typ.Name())
		}
	}
	for field := range goFields {
		if !cueFields[field] {
			t.Errorf("[%s] Go JSON tag %q not found in CUE schema", definition, field)
		}
	}
}

func TestConfigSchemaSync(t *testing.T) {
	t.Parallel()

	assertFieldsSync(t, "#Config", reflect.TypeFor[Config]())
	assertFieldsSync(t, "#WatchConfig", reflect.TypeFor[WatchConfig]())
	assertFieldsSync(t, "#UIConfig", reflect.TypeFor[UIConfig]())
}
