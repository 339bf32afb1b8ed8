package mcpui

import "github.com/wagiedev/mcpui-go/internal/errors"

// Re-export error types from internal package

// ValidationError indicates render data failed the schema registered for a tool.
type ValidationError = errors.ValidationError

// BundleLoadError indicates a prebuilt UI bundle could not be read.
type BundleLoadError = errors.BundleLoadError

// MessageParseError indicates a handshake message of a known type had a malformed payload.
type MessageParseError = errors.MessageParseError

// TargetConfigError indicates an invalid UI target table entry.
type TargetConfigError = errors.TargetConfigError

// MCPUIError is the base interface for all toolkit errors.
type MCPUIError = errors.MCPUIError

// Re-export sentinel errors from internal package.
var (
	// ErrNoTarget indicates no UI delivery target is registered for a tool.
	ErrNoTarget = errors.ErrNoTarget

	// ErrUnknownMessageType indicates a handshake message type is not recognized.
	ErrUnknownMessageType = errors.ErrUnknownMessageType

	// ErrNotMounted indicates a host operation ran without a mountable frame.
	ErrNotMounted = errors.ErrNotMounted

	// ErrEmbedClosed indicates the embedding surface was unmounted.
	ErrEmbedClosed = errors.ErrEmbedClosed

	// ErrChannelClosed indicates the embedding channel is closed.
	ErrChannelClosed = errors.ErrChannelClosed

	// ErrOriginRejected indicates a message arrived from an origin outside the allowlist.
	ErrOriginRejected = errors.ErrOriginRejected

	// ErrActionRateLimited indicates an embed emitted actions faster than allowed.
	ErrActionRateLimited = errors.ErrActionRateLimited
)
