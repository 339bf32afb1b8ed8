package augment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcpui-go/internal/config"
	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

type greetInput struct {
	Name string `json:"name"`
}

type greetOutput struct {
	Message string `json:"message"`
}

func connectWithMiddleware(t *testing.T, mw mcp.Middleware) *mcp.ClientSession {
	t.Helper()

	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.1"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "greet", Description: "Greets someone"},
		func(_ context.Context, _ *mcp.CallToolRequest, in greetInput) (*mcp.CallToolResult, greetOutput, error) {
			return nil, greetOutput{Message: "Hello " + in.Name}, nil
		})
	mcp.AddTool(server, &mcp.Tool{Name: "plain", Description: "No UI"},
		func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "plain"}}}, nil, nil
		})
	server.AddReceivingMiddleware(mw)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func TestMiddleware_AugmentsStructuredContent(t *testing.T) {
	a := New(&config.Options{Targets: map[string]config.Target{
		"hello-world": {Route: "/HelloWorld"},
	}})
	session := connectWithMiddleware(t, a.Middleware(map[string]string{"greet": "hello-world"}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "greet",
		Arguments: map[string]any{"name": "World"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	d, idx, ok := uiresource.Find(result.Content)
	require.True(t, ok)
	require.Equal(t, len(result.Content)-1, idx, "UI resource is appended last")
	require.Contains(t, d.URI, "ui://hello-world/")

	data, ok := d.RenderData()
	require.True(t, ok)
	require.Equal(t, "Hello World", data["message"])
}

func TestMiddleware_LeavesUnmappedToolsAlone(t *testing.T) {
	a := New(&config.Options{Targets: map[string]config.Target{
		"hello-world": {Route: "/HelloWorld"},
	}})
	session := connectWithMiddleware(t, a.Middleware(map[string]string{"greet": "hello-world"}))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "plain",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)

	_, _, ok := uiresource.Find(result.Content)
	require.False(t, ok)
}

func TestMiddleware_AdvertisesResourceURI(t *testing.T) {
	a := New(&config.Options{Targets: map[string]config.Target{
		"hello-world": {Route: "/HelloWorld"},
	}})
	session := connectWithMiddleware(t, a.Middleware(map[string]string{"greet": "hello-world"}))

	list, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	byName := make(map[string]*mcp.Tool, len(list.Tools))
	for _, tool := range list.Tools {
		byName[tool.Name] = tool
	}

	require.Contains(t, byName, "greet")
	require.Contains(t, byName, "plain")

	ui, ok := byName["greet"].Meta["ui"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ui://hello-world/", ui["resourceUri"])
	require.NotContains(t, byName["plain"].Meta, "ui")
}

func TestStructuredRenderData(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   map[string]any
		wantOK bool
	}{
		{name: "nil", input: nil},
		{name: "map", input: map[string]any{"a": 1}, want: map[string]any{"a": 1}, wantOK: true},
		{name: "raw message", input: json.RawMessage(`{"a":1}`), want: map[string]any{"a": float64(1)}, wantOK: true},
		{name: "struct", input: greetOutput{Message: "hi"}, want: map[string]any{"message": "hi"}, wantOK: true},
		{name: "array", input: []int{1, 2}},
		{name: "invalid raw", input: json.RawMessage(`[`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := structuredRenderData(tt.input)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
