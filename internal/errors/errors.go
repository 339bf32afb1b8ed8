package errors

import (
	"errors"
	"fmt"
)

// MCPUIError is the base interface for all toolkit errors.
type MCPUIError interface {
	error
	IsMCPUIError() bool
}

// Compile-time verification that all error types implement MCPUIError.
var (
	_ MCPUIError = (*ValidationError)(nil)
	_ MCPUIError = (*BundleLoadError)(nil)
	_ MCPUIError = (*MessageParseError)(nil)
	_ MCPUIError = (*TargetConfigError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNoTarget indicates no UI delivery target is registered for a tool.
	// It marks the "no UI available" path and is never a failure of the tool call.
	ErrNoTarget = errors.New("no UI target registered")

	// ErrUnknownMessageType indicates the handshake message type is not recognized.
	// Callers should skip these messages; the channel is shared with other traffic.
	ErrUnknownMessageType = errors.New("unknown message type")

	// ErrNotMounted indicates a host operation ran against an embed that was never mounted.
	ErrNotMounted = errors.New("embed not mounted")

	// ErrEmbedClosed indicates the embedding surface was unmounted.
	ErrEmbedClosed = errors.New("embed closed")

	// ErrChannelClosed indicates the embedding channel is closed.
	ErrChannelClosed = errors.New("channel closed")

	// ErrOriginRejected indicates a message arrived from an origin outside the allowlist.
	ErrOriginRejected = errors.New("origin rejected")

	// ErrActionRateLimited indicates an embed emitted actions faster than allowed.
	ErrActionRateLimited = errors.New("action rate limited")
)

// ValidationError indicates render data failed the schema registered for a tool.
type ValidationError struct {
	Tool string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed for tool %q: %v", e.Tool, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsMCPUIError implements MCPUIError.
func (e *ValidationError) IsMCPUIError() bool { return true }

// BundleLoadError indicates a prebuilt UI bundle could not be read.
type BundleLoadError struct {
	Bundle string
	Path   string
	Err    error
}

func (e *BundleLoadError) Error() string {
	return fmt.Sprintf("failed to load bundle %s from %s: %v", e.Bundle, e.Path, e.Err)
}

func (e *BundleLoadError) Unwrap() error {
	return e.Err
}

// IsMCPUIError implements MCPUIError.
func (e *BundleLoadError) IsMCPUIError() bool { return true }

// MessageParseError indicates a handshake message of a known type carried a
// structurally invalid payload.
type MessageParseError struct {
	Type string
	Err  error
}

func (e *MessageParseError) Error() string {
	return fmt.Sprintf("invalid %s message: %v", e.Type, e.Err)
}

func (e *MessageParseError) Unwrap() error {
	return e.Err
}

// IsMCPUIError implements MCPUIError.
func (e *MessageParseError) IsMCPUIError() bool { return true }

// TargetConfigError indicates a tool's delivery target entry is invalid.
type TargetConfigError struct {
	Tool string
	Err  error
}

func (e *TargetConfigError) Error() string {
	return fmt.Sprintf("invalid UI target for tool %q: %v", e.Tool, e.Err)
}

func (e *TargetConfigError) Unwrap() error {
	return e.Err
}

// IsMCPUIError implements MCPUIError.
func (e *TargetConfigError) IsMCPUIError() bool { return true }
