package mcpui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcpui-go/internal/handshake"
	"github.com/wagiedev/mcpui-go/internal/host"
)

// Client is a host-side MCP session that renders UI tool results.
//
// Lifecycle: Clients are single-use. After Close(), connect a new one.
//
// Example usage:
//
//	c, err := mcpui.Connect(ctx, "http://localhost:8080/mcp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	result, err := c.CallTool(ctx, "list_databases", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if frame, ok := c.Renderer().Render(result).(*mcpui.Frame); ok {
//	    // mount frame
//	}
type Client struct {
	session  *mcp.ClientSession
	renderer *host.Renderer
	log      *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Compile-time check that a Client forwards embed actions.
var _ ActionHandler = (*Client)(nil)

// Connect opens a streamable HTTP session to endpoint.
func Connect(ctx context.Context, endpoint string, opts ...Option) (*Client, error) {
	return ConnectTransport(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint}, opts...)
}

// ConnectTransport opens a session over an arbitrary MCP transport.
func ConnectTransport(ctx context.Context, transport mcp.Transport, opts ...Option) (*Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	options := applyOptions(opts)
	log := options.Log().With("component", "client")

	client := mcp.NewClient(&mcp.Implementation{Name: "mcpui-host", Version: Version}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	log.Debug("Connected", "session_id", session.ID())

	return &Client{
		session:  session,
		renderer: host.NewRenderer(options),
		log:      log,
	}, nil
}

// ListTools returns every tool the server advertises, following pagination.
func (c *Client) ListTools(ctx context.Context) ([]*Tool, error) {
	var (
		tools  []*Tool
		cursor string
	)

	for {
		res, err := c.session.ListTools(ctx, &mcp.ListToolsParams{Cursor: cursor})
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}

		tools = append(tools, res.Tools...)

		if res.NextCursor == "" {
			return tools, nil
		}

		cursor = res.NextCursor
	}
}

// CallTool calls a tool by name.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*CallToolResult, error) {
	if args == nil {
		args = map[string]any{}
	}

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("call tool %s: %w", name, err)
	}

	c.log.Debug("Tool called", "tool", name, "is_error", result.IsError)

	return result, nil
}

// Renderer returns the renderer used for this client's results.
func (c *Client) Renderer() *Renderer {
	return c.renderer
}

// HandleAction forwards tool actions from an embedded surface to the server.
// Intents and notifications are logged.
func (c *Client) HandleAction(ctx context.Context, embedID string, action Action) error {
	switch a := action.(type) {
	case handshake.ToolAction:
		result, err := c.CallTool(ctx, a.ToolName, a.Params)
		if err != nil {
			return err
		}

		if result.IsError {
			return fmt.Errorf("tool %s returned an error result", a.ToolName)
		}

		return nil
	case handshake.IntentAction:
		c.log.Info("UI intent", "embed_id", embedID, "intent", a.Intent)
	case handshake.NotifyAction:
		c.log.Info("UI notification", "embed_id", embedID, "level", a.Level, "message", a.Message)
	}

	return nil
}

// Close ends the session. Safe to call multiple times.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.session.Close()
	})

	return c.closeErr
}
