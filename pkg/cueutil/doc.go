// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE decoding step used for plugin
// descriptors and the plugver configuration file.
//
// Both inputs follow the same flow:
//
//  1. Compile the embedded schema
//  2. Compile the input and unify it with the schema definition
//  3. Validate and decode into a Go value
//
// CUE is a superset of JSON, so descriptor files written as plain JSON
// decode without any conversion step.
//
// # Usage
//
//	//go:embed descriptor_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[fields](schema, content, "#Descriptor",
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
