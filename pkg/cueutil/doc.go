// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Decoding follows three steps: compile the schema, compile the user data and
// unify it with a definition from the schema, then validate and decode the
// result into a Go value. Errors carry the file name and the JSON-style path
// of the offending field.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[map[string]any](
//	    schema, data, "#Config",
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
