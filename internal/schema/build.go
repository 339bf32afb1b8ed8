package schema

import (
	"maps"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Ptr returns a pointer to v, for optional schema keywords.
func Ptr[T any](v T) *T {
	return &v
}

// Object builds an object schema whose listed properties are all required.
func Object(props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   slices.Sorted(maps.Keys(props)),
	}
}

// ArrayOf builds an array schema with the given item schema.
func ArrayOf(items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Items: items}
}

// NonEmptyString matches strings with at least one character.
func NonEmptyString() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", MinLength: Ptr(1)}
}

// NonNegativeNumber matches numbers greater than or equal to zero.
func NonNegativeNumber() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number", Minimum: Ptr(0.0)}
}

// Tuple builds a fixed-length array schema with positional item schemas.
func Tuple(items ...*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		PrefixItems: items,
		MinItems:    Ptr(len(items)),
		MaxItems:    Ptr(len(items)),
	}
}

// goTypes maps Go type names, and their JSON Schema spellings, to schema types.
var goTypes = map[string]string{
	"string":  "string",
	"int":     "integer",
	"int8":    "integer",
	"int16":   "integer",
	"int32":   "integer",
	"int64":   "integer",
	"uint":    "integer",
	"uint8":   "integer",
	"uint16":  "integer",
	"uint32":  "integer",
	"uint64":  "integer",
	"integer": "integer",
	"float32": "number",
	"float64": "number",
	"float":   "number",
	"number":  "number",
	"bool":    "boolean",
	"boolean": "boolean",
	"any":     "object",
	"object":  "object",

	"map[string]any": "object",
}

// FromTypes builds a tool input schema from a property name to Go type map,
// e.g. {"name": "string", "ids": "[]int"}. Every property is required.
func FromTypes(props map[string]string) *jsonschema.Schema {
	fields := make(map[string]*jsonschema.Schema, len(props))
	for name, goType := range props {
		fields[name] = ForType(goType)
	}

	return Object(fields)
}

// ForType returns the schema for a Go type name. Slice types become arrays;
// unknown names fall back to string.
func ForType(goType string) *jsonschema.Schema {
	if elem, ok := strings.CutPrefix(goType, "[]"); ok && elem != "" {
		return ArrayOf(ForType(elem))
	}

	if t, ok := goTypes[goType]; ok {
		return &jsonschema.Schema{Type: t}
	}

	return &jsonschema.Schema{Type: "string"}
}
