package mcpui

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcpui-go/internal/augment"
	internalmcp "github.com/wagiedev/mcpui-go/internal/mcp"
)

// Server is a registry of plain and UI tools.
type Server = internalmcp.Server

// UIToolHandler handles a tool call and returns render data for its UI.
type UIToolHandler = internalmcp.UIToolHandler

// NewServer creates a tool registry whose UI tools are augmented according to opts.
func NewServer(name, version string, opts ...Option) *Server {
	options := applyOptions(opts)

	return internalmcp.NewServer(name, version, options.Log(), augment.New(options))
}

// NewStreamableHTTPHandler serves the registry over streamable HTTP. Every
// session shares one SDK server instance.
func NewStreamableHTTPHandler(s *Server, opts *mcp.StreamableHTTPOptions) http.Handler {
	server := s.NewMCPServer(nil)

	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, opts)
}
