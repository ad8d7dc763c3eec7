// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Parsing follows three steps: compile the embedded schema, compile the user
// data and unify it with a schema definition, then validate and decode.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[map[string]any](
//	    schema,
//	    data,
//	    "#Config",
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
//
// Errors carry the file name and a JSON-style path to the offending field.
package cueutil
