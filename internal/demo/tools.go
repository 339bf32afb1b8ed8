package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	internalmcp "github.com/wagiedev/mcpui-go/internal/mcp"
)

// Tools registers the demo tools.
type Tools struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (t Tools) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}

	return time.Now()
}

// Register adds the demo tools to server.
func (t Tools) Register(server *internalmcp.Server) {
	server.AddUITool(
		internalmcp.NewTool(ToolHelloWorld, `A tool that returns a simple "Hello World" message.`, nil),
		UIHelloWorld,
		t.helloWorld,
	)
	server.AddUITool(
		internalmcp.NewTool(ToolClusterMetrics, "A tool that returns a UI resource for cluster metrics.", nil),
		UIClusterMetrics,
		t.clusterMetrics,
	)
	server.AddUITool(
		internalmcp.NewTool(ToolListDatabases, "A tool that lists available databases with their sizes.", nil),
		UIListDatabases,
		t.listDatabases,
	)
}

func (t Tools) helloWorld(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, map[string]any, error) {
	data := map[string]any{
		"message":   "Hello World",
		"timestamp": t.now().UTC().Format(time.RFC3339),
	}

	return internalmcp.TextResult(""), data, nil
}

// clusterMetrics returns the series as JSON text and leaves render data to
// the target's transform.
func (t Tools) clusterMetrics(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, map[string]any, error) {
	result, err := internalmcp.JSONResult(ClusterMetrics(t.now()))
	if err != nil {
		return nil, nil, err
	}

	return result, nil, nil
}

func (t Tools) listDatabases(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, map[string]any, error) {
	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d databases", len(Databases))},
			&mcp.TextContent{Text: untrustedListing(Databases)},
		},
	}

	databases := make([]any, 0, len(Databases))
	for _, db := range Databases {
		databases = append(databases, map[string]any{"name": db.Name, "size": db.Size})
	}

	data := map[string]any{
		"databases":  databases,
		"totalCount": len(Databases),
	}

	return result, data, nil
}
