/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package schema reflects JSON schemas from the Go types that model output is
// decoded into, and validates payloads against them.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Generator wraps jsonschema.Reflector with the defaults used for response records.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator returns a generator that inlines nested types and takes
// required-ness from `jsonschema:"required"` tags.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			AllowAdditionalProperties:  true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the schema for v.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	s := g.reflector.Reflect(v)
	// Payload validation runs on a draft-7 validator, which rejects the
	// 2020-12 meta-schema URL the reflector stamps on the root.
	s.Version = ""
	return s
}

// ReflectType reflects the schema of T.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return NewGenerator().Reflect(&zero)
}

// JSON renders the schema of T as indented JSON, for embedding in prompts.
func JSON[T any]() (string, error) {
	b, err := json.MarshalIndent(ReflectType[T](), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(b), nil
}

// MustJSON is JSON for package-level initialization; it panics on error.
func MustJSON[T any]() string {
	s, err := JSON[T]()
	if err != nil {
		panic(err)
	}
	return s
}
