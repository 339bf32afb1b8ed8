// Package errors defines error types for the MCP-UI toolkit.
//
// Augmentation is best effort: the augmenter converts these errors into log
// entries and returns the tool result unchanged. The handshake side surfaces
// them to callers so hosts and embedded runtimes can decide what to show.
// All error types support unwrapping and can be checked using errors.Is,
// errors.As, and errors.AsType.
package errors
