package schema

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mitchellh/mapstructure"
)

// Validator checks a render data value and returns the validated value.
type Validator interface {
	Validate(data any) (any, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(data any) (any, error)

// Validate implements Validator.
func (f ValidatorFunc) Validate(data any) (any, error) { return f(data) }

// Compile-time verification that validators implement Validator.
var (
	_ Validator = ValidatorFunc(nil)
	_ Validator = (*JSONSchema)(nil)
)

// JSONSchema validates values against a resolved JSON Schema.
type JSONSchema struct {
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
}

// NewJSONSchema resolves s and returns a validator for it.
func NewJSONSchema(s *jsonschema.Schema) (*JSONSchema, error) {
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}

	return &JSONSchema{schema: s, resolved: resolved}, nil
}

// MustJSONSchema is like NewJSONSchema but panics on an unresolvable schema.
// Use it for schemas declared at package level.
func MustJSONSchema(s *jsonschema.Schema) *JSONSchema {
	v, err := NewJSONSchema(s)
	if err != nil {
		panic(err)
	}

	return v
}

// Schema returns the underlying schema.
func (v *JSONSchema) Schema() *jsonschema.Schema {
	return v.schema
}

// Validate implements Validator. The value is normalized to plain JSON types
// first so Go structs, ints and typed slices validate the same as decoded JSON.
func (v *JSONSchema) Validate(data any) (any, error) {
	normalized, err := Normalize(data)
	if err != nil {
		return nil, err
	}

	if err := v.resolved.Validate(normalized); err != nil {
		return nil, err
	}

	return normalized, nil
}

// Normalize converts a value to its JSON data model representation
// (map[string]any, []any, float64, string, bool, nil).
func Normalize(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal render data: %w", err)
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal render data: %w", err)
	}

	return out, nil
}

// Decode converts validated render data into a typed value using json tags.
func Decode[T any](data any) (T, error) {
	var out T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return out, fmt.Errorf("create decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return out, fmt.Errorf("decode value: %w", err)
	}

	return out, nil
}

// Registry maps tool names to validators. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		validators: make(map[string]Validator, 8),
	}
}

// Register associates a validator with a tool name, replacing any previous one.
func (r *Registry) Register(tool string, v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.validators[tool] = v
}

// Lookup returns the validator for a tool.
func (r *Registry) Lookup(tool string) (Validator, bool) {
	if r == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.validators[tool]

	return v, ok
}

// Tools returns the registered tool names in sorted order.
func (r *Registry) Tools() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.validators))
}

// Validate runs the tool's validator. Tools without a validator pass through unchanged.
func (r *Registry) Validate(tool string, data any) (any, error) {
	v, ok := r.Lookup(tool)
	if !ok {
		return data, nil
	}

	return v.Validate(data)
}
