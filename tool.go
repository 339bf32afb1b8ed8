package mcpui

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	internalmcp "github.com/wagiedev/mcpui-go/internal/mcp"
	"github.com/wagiedev/mcpui-go/internal/schema"
)

// UIToolOption configures a UITool during construction.
type UIToolOption func(*UITool)

// WithAnnotations sets MCP tool annotations (hints about tool behavior).
func WithAnnotations(annotations *mcp.ToolAnnotations) UIToolOption {
	return func(t *UITool) {
		t.ToolAnnotations = annotations
	}
}

// WithTitle sets the human-readable tool title.
func WithTitle(title string) UIToolOption {
	return func(t *UITool) {
		t.ToolTitle = title
	}
}

// UITool is a tool whose result carries a UI.
type UITool struct {
	ToolName        string
	ToolTitle       string
	ToolDescription string
	ToolSchema      *jsonschema.Schema
	ToolAnnotations *mcp.ToolAnnotations
	// UIName selects the UI target, e.g. "list-databases" for tool "list_databases".
	UIName  string
	Handler UIToolHandler
}

// NewUITool creates a UI tool.
//
// Example:
//
//	tool := mcpui.NewUITool("hello_world", "Says hello", "hello-world", nil,
//	    func(ctx context.Context, req *mcpui.CallToolRequest) (*mcpui.CallToolResult, map[string]any, error) {
//	        return mcpui.TextResult(""), map[string]any{"message": "Hello World"}, nil
//	    },
//	    mcpui.WithTitle("Hello World"),
//	)
func NewUITool(
	name, description, uiName string,
	inputSchema *jsonschema.Schema,
	handler UIToolHandler,
	opts ...UIToolOption,
) *UITool {
	tool := &UITool{
		ToolName:        name,
		ToolDescription: description,
		ToolSchema:      inputSchema,
		UIName:          uiName,
		Handler:         handler,
	}

	for _, opt := range opts {
		opt(tool)
	}

	return tool
}

// AddUITools registers UI tools on a server.
func AddUITools(s *Server, tools ...*UITool) {
	for _, tool := range tools {
		mcpTool := internalmcp.NewTool(tool.ToolName, tool.ToolDescription, tool.ToolSchema)
		mcpTool.Title = tool.ToolTitle
		mcpTool.Annotations = tool.ToolAnnotations
		s.AddUITool(mcpTool, tool.UIName, tool.Handler)
	}
}

// Re-exported tool helpers.
var (
	// NewTool creates an mcp.Tool.
	NewTool = internalmcp.NewTool
	// SimpleSchema creates an object schema from a name to Go type map.
	SimpleSchema = schema.FromTypes
	// TextResult creates a result with text content.
	TextResult = internalmcp.TextResult
	// JSONResult creates a result whose text content is JSON.
	JSONResult = internalmcp.JSONResult
	// ErrorResult creates a result flagged as an error.
	ErrorResult = internalmcp.ErrorResult
	// ParseArguments decodes tool call arguments into a map.
	ParseArguments = internalmcp.ParseArguments
)

// DecodeArguments decodes tool call arguments into T using its json tags.
func DecodeArguments[T any](req *CallToolRequest) (T, error) {
	return internalmcp.DecodeArguments[T](req)
}
