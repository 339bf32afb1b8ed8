package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcpui-go/internal/augment"
	"github.com/wagiedev/mcpui-go/internal/schema"
	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

// UIToolHandler handles a tool call and returns render data for its UI.
// With nil render data the UI target's transform derives it from the result;
// targets without a transform attach the UI with no data.
type UIToolHandler func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, map[string]any, error)

// Server is a tool registry backed by the official MCP SDK types.
type Server struct {
	name      string
	version   string
	log       *slog.Logger
	augmenter *augment.Augmenter

	mu    sync.RWMutex
	tools map[string]*registeredTool
}

// registeredTool holds tool metadata and handler for the registry.
type registeredTool struct {
	tool    *mcp.Tool
	handler mcp.ToolHandler
	uiName  string
}

// NewServer creates a tool registry. augmenter may be nil, in which case
// UI tools return their results unchanged.
func NewServer(name, version string, log *slog.Logger, augmenter *augment.Augmenter) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Server{
		name:      name,
		version:   version,
		log:       log.With("component", "mcp_server", "server", name),
		augmenter: augmenter,
		tools:     make(map[string]*registeredTool, 8),
	}
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.name
}

// Version returns the server version.
func (s *Server) Version() string {
	return s.version
}

// Implementation returns the server identity for the MCP initialize handshake.
func (s *Server) Implementation() *mcp.Implementation {
	return &mcp.Implementation{Name: s.name, Version: s.version}
}

// AddTool registers a plain tool.
func (s *Server) AddTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	s.add(tool, handler, "")
}

// AddUITool registers a tool whose results carry the UI registered for uiName.
func (s *Server) AddUITool(tool *mcp.Tool, uiName string, handler UIToolHandler) {
	s.add(tool, s.uiHandler(tool, uiName, handler), uiName)
}

func (s *Server) add(tool *mcp.Tool, handler mcp.ToolHandler, uiName string) {
	if tool.InputSchema == nil {
		tool.InputSchema = &jsonschema.Schema{Type: "object"}
	}

	if uiName != "" {
		if tool.Meta == nil {
			tool.Meta = make(mcp.Meta)
		}

		tool.Meta["ui"] = map[string]any{"resourceUri": uiresource.ToolURIPrefix(uiName)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools[tool.Name] = &registeredTool{
		tool:    tool,
		handler: handler,
		uiName:  uiName,
	}

	s.log.Debug("Registered tool", "tool", tool.Name, "ui", uiName)
}

// uiHandler adapts a UIToolHandler into an SDK handler that checks arguments
// against the tool's input schema and augments results.
func (s *Server) uiHandler(tool *mcp.Tool, uiName string, handler UIToolHandler) mcp.ToolHandler {
	input := s.inputValidator(tool)

	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if input != nil {
			args, err := ParseArguments(req)
			if err == nil {
				_, err = input.Validate(args)
			}

			if err != nil {
				s.log.Debug("Rejected tool arguments", "tool", tool.Name, "error", err)

				return ErrorResult("Invalid arguments: " + err.Error()), nil
			}
		}

		result, renderData, err := handler(ctx, req)
		if err != nil {
			s.log.Warn("Tool execution failed", "tool", tool.Name, "error", err)

			return ErrorResult("Tool execution failed: " + err.Error()), nil
		}

		if result == nil || result.IsError || s.augmenter == nil {
			return result, nil
		}

		if renderData == nil {
			return s.augmenter.AugmentResult(result, uiName), nil
		}

		return s.augmenter.Augment(result, uiName, renderData), nil
	}
}

// inputValidator resolves the tool's input schema. Tools without a
// *jsonschema.Schema input schema are not checked.
func (s *Server) inputValidator(tool *mcp.Tool) *schema.JSONSchema {
	in, ok := tool.InputSchema.(*jsonschema.Schema)
	if !ok || in == nil {
		return nil
	}

	v, err := schema.NewJSONSchema(in)
	if err != nil {
		s.log.Warn("Input schema does not resolve", "tool", tool.Name, "error", err)

		return nil
	}

	return v
}

// Tools returns the registered tool definitions sorted by name.
func (s *Server) Tools() []*mcp.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := slices.Sorted(maps.Keys(s.tools))
	out := make([]*mcp.Tool, 0, len(names))

	for _, name := range names {
		out = append(out, s.tools[name].tool)
	}

	return out
}

// UIName returns the UI a tool is bound to, if any.
func (s *Server) UIName(tool string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tools[tool]
	if !ok || t.uiName == "" {
		return "", false
	}

	return t.uiName, true
}

// CallTool executes a tool by name. Unknown tools and handler failures are
// reported in the result rather than as an error.
func (s *Server) CallTool(ctx context.Context, name string, input map[string]any) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	t, exists := s.tools[name]
	s.mu.RUnlock()

	if !exists {
		return ErrorResult("Tool not found: " + name), nil
	}

	inputBytes, err := json.Marshal(input)
	if err != nil {
		//nolint:nilerr // Intentionally return nil error - error is encoded in the result
		return ErrorResult("Failed to marshal input: " + err.Error()), nil
	}

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: inputBytes,
		},
	}

	result, err := t.handler(ctx, req)
	if err != nil {
		//nolint:nilerr // Intentionally return nil error - error is encoded in the result
		return ErrorResult("Tool execution failed: " + err.Error()), nil
	}

	return result, nil
}

// Install registers every tool on an SDK server.
func (s *Server) Install(server *mcp.Server) {
	for _, tool := range s.Tools() {
		s.mu.RLock()
		handler := s.tools[tool.Name].handler
		s.mu.RUnlock()

		server.AddTool(tool, handler)
	}
}

// NewMCPServer creates an SDK server with every registered tool installed.
func (s *Server) NewMCPServer(opts *mcp.ServerOptions) *mcp.Server {
	server := mcp.NewServer(s.Implementation(), opts)
	s.Install(server)

	return server
}

// TextResult creates a CallToolResult with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// JSONResult creates a CallToolResult whose text content is v encoded as JSON.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	return TextResult(string(raw)), nil
}

// ErrorResult creates a CallToolResult indicating an error.
func ErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: message},
		},
		IsError: true,
	}
}

// NewTool creates an mcp.Tool with the given parameters.
// A nil schema is replaced by an empty object schema on registration.
func NewTool(name, description string, inputSchema *jsonschema.Schema) *mcp.Tool {
	tool := &mcp.Tool{
		Name:        name,
		Description: description,
	}

	if inputSchema != nil {
		tool.InputSchema = inputSchema
	}

	return tool
}

// ParseArguments decodes call arguments into the JSON data model. Absent or
// null arguments decode as an empty map.
func ParseArguments(req *mcp.CallToolRequest) (map[string]any, error) {
	args := make(map[string]any)
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return args, nil
	}

	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return nil, fmt.Errorf("failed to unmarshal arguments: %w", err)
	}

	if args == nil {
		args = make(map[string]any)
	}

	return args, nil
}

// DecodeArguments decodes call arguments into T using its json tags.
//
//	type greetArgs struct {
//		Name string `json:"name"`
//	}
//
//	args, err := DecodeArguments[greetArgs](req)
func DecodeArguments[T any](req *mcp.CallToolRequest) (T, error) {
	args, err := ParseArguments(req)
	if err != nil {
		var zero T

		return zero, err
	}

	return schema.Decode[T](args)
}
