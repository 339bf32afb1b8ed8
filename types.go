package mcpui

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcpui-go/internal/augment"
	"github.com/wagiedev/mcpui-go/internal/channel"
	"github.com/wagiedev/mcpui-go/internal/config"
	"github.com/wagiedev/mcpui-go/internal/embed"
	"github.com/wagiedev/mcpui-go/internal/handshake"
	"github.com/wagiedev/mcpui-go/internal/host"
	"github.com/wagiedev/mcpui-go/internal/schema"
	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

// Re-export types from internal packages

// ===== MCP =====

type (
	// CallToolResult is the server's response to a tool call.
	CallToolResult = mcp.CallToolResult

	// CallToolRequest is the request passed to tool handlers.
	CallToolRequest = mcp.CallToolRequest

	// Tool is an MCP tool definition.
	Tool = mcp.Tool

	// ToolHandler handles a plain tool call.
	ToolHandler = mcp.ToolHandler

	// Schema is a JSON Schema object for tool input and render data validation.
	Schema = jsonschema.Schema
)

// ===== Targets =====

type (
	// Target names where a tool's UI comes from.
	Target = config.Target

	// TargetFile is the on-disk target table.
	TargetFile = config.TargetFile

	// TransformFunc derives render data from a tool result.
	TransformFunc = config.TransformFunc

	// Augmenter attaches UI resources to tool results.
	Augmenter = augment.Augmenter
)

// LoadTargets decodes and validates a YAML target table.
var LoadTargets = config.LoadTargets

// LoadTargetsFile reads a YAML target table from a path.
var LoadTargetsFile = config.LoadTargetsFile

// ===== UI resources =====

type (
	// Descriptor is a UI resource attached to a tool result.
	Descriptor = uiresource.Descriptor

	// Delivery describes how the host obtains the UI document.
	Delivery = uiresource.Delivery

	// RawHTML is inline HTML delivery.
	RawHTML = uiresource.RawHTML

	// ExternalURL is delivery by address.
	ExternalURL = uiresource.ExternalURL

	// Encoding selects text or blob payload storage.
	Encoding = uiresource.Encoding
)

const (
	// EncodingText stores the payload in the resource text.
	EncodingText = uiresource.EncodingText
	// EncodingBlob stores the payload as base64 bytes.
	EncodingBlob = uiresource.EncodingBlob

	// MetadataKeyInitialRenderData is the metadata key holding render data.
	MetadataKeyInitialRenderData = uiresource.MetadataKeyInitialRenderData
)

// FindUIResource returns the first UI resource in a result's content.
func FindUIResource(result *CallToolResult) (*Descriptor, bool) {
	if result == nil {
		return nil, false
	}

	d, _, ok := uiresource.Find(result.Content)

	return d, ok
}

// ===== Validation =====

type (
	// Validator checks render data.
	Validator = schema.Validator

	// ValidatorFunc adapts a function to Validator.
	ValidatorFunc = schema.ValidatorFunc

	// ValidatorRegistry maps UI tool names to validators.
	ValidatorRegistry = schema.Registry

	// JSONSchemaValidator validates against a resolved JSON Schema.
	JSONSchemaValidator = schema.JSONSchema
)

// NewValidatorRegistry creates an empty validator registry.
func NewValidatorRegistry() *ValidatorRegistry {
	return schema.NewRegistry()
}

// NewJSONSchemaValidator resolves s and returns a validator for it.
func NewJSONSchemaValidator(s *Schema) (*JSONSchemaValidator, error) {
	return schema.NewJSONSchema(s)
}

// ===== Handshake =====

type (
	// Message is a handshake message.
	Message = handshake.Message

	// Action is a message emitted by an embedded surface.
	Action = handshake.Action

	// ToolAction asks the host to call a tool.
	ToolAction = handshake.ToolAction

	// IntentAction forwards an application intent.
	IntentAction = handshake.IntentAction

	// NotifyAction asks the host to show a message.
	NotifyAction = handshake.NotifyAction

	// NotifyLevel is the severity of a notification.
	NotifyLevel = handshake.Level
)

const (
	NotifyInfo    = handshake.LevelInfo
	NotifySuccess = handshake.LevelSuccess
	NotifyWarning = handshake.LevelWarning
	NotifyError   = handshake.LevelError
)

// ===== Channel =====

type (
	// Port is one end of an embedding channel.
	Port = channel.Port

	// ChannelFrame is one message received on a Port.
	ChannelFrame = channel.Frame

	// WebSocketPort is a Port over a WebSocket connection.
	WebSocketPort = channel.WebSocket
)

// Pipe returns two connected in-memory ports.
var Pipe = channel.Pipe

// UpgradeWebSocket upgrades an HTTP request to a server-side WebSocket port.
var UpgradeWebSocket = channel.Upgrade

// DialWebSocket connects a client-side WebSocket port.
var DialWebSocket = channel.Dial

// ===== Host =====

type (
	// Renderer turns tool results into views and mounts frames.
	Renderer = host.Renderer

	// View is what the host shows for a tool result.
	View = host.View

	// Placeholder is shown when there is nothing to mount.
	Placeholder = host.Placeholder

	// Frame is a UI resource ready to mount.
	Frame = host.Frame

	// DataSource records where a frame's render data came from.
	DataSource = host.DataSource

	// Embed drives the handshake for one mounted frame.
	Embed = host.Embed

	// EmbedState is the handshake state of an embed.
	EmbedState = host.EmbedState

	// ActionHandler handles actions emitted by an embedded surface.
	ActionHandler = host.ActionHandler

	// ActionHandlerFunc adapts a function to ActionHandler.
	ActionHandlerFunc = host.ActionHandlerFunc
)

const (
	SourceNone     = host.SourceNone
	SourceMetadata = host.SourceMetadata
	SourceText     = host.SourceText
)

// ===== Embedded runtime =====

type (
	// Runtime drives the handshake inside an embedded surface.
	Runtime = embed.Runtime

	// State is what the embedded UI observes.
	State = embed.State

	// Status is the coarse runtime state.
	Status = embed.Status
)

const (
	StatusLoading = embed.StatusLoading
	StatusError   = embed.StatusError
	StatusReady   = embed.StatusReady
)

// DecodeState converts a ready state's data into T using json field names.
func DecodeState[T any](s State) (T, error) {
	return embed.Decode[T](s)
}
