// Package schema validates render data before it reaches an embedded UI.
//
// A Validator turns an opaque JSON-compatible value into a validated value or
// an error. Validators are registered per tool name in a Registry so new tools
// can be added without touching the augmenter. JSONSchema adapts a
// jsonschema.Schema into a Validator.
package schema
