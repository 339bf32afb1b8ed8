package demo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcpui-go/internal/augment"
	"github.com/wagiedev/mcpui-go/internal/config"
	internalmcp "github.com/wagiedev/mcpui-go/internal/mcp"
	"github.com/wagiedev/mcpui-go/internal/schema"
	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func newDemoServer(t *testing.T) *internalmcp.Server {
	t.Helper()

	augmenter := augment.New(&config.Options{
		Targets:         ExternalTargets(),
		ExternalBaseURL: "http://localhost:3003",
		Validators:      Validators(),
	})

	server := internalmcp.NewServer("mcpui-demo", "1.0.0", nil, augmenter)
	Tools{Now: func() time.Time { return fixedNow }}.Register(server)

	return server
}

func uiResource(t *testing.T, result *mcp.CallToolResult) (*uiresource.Descriptor, map[string]any) {
	t.Helper()

	d, idx, ok := uiresource.Find(result.Content)
	require.True(t, ok)
	require.Equal(t, len(result.Content)-1, idx)

	data, ok := d.RenderData()
	require.True(t, ok)

	return d, data
}

func TestHelloWorld(t *testing.T) {
	result, err := newDemoServer(t).CallTool(context.Background(), ToolHelloWorld, nil)
	require.NoError(t, err)
	require.Len(t, result.Content, 2)

	d, data := uiResource(t, result)
	require.True(t, strings.HasPrefix(d.URI, "ui://hello-world/"))
	require.Equal(t,
		uiresource.ExternalURL{URL: "http://localhost:3003/HelloWorld?waitForRenderData=true"},
		d.Delivery,
	)

	typed, err := schema.Decode[HelloWorldData](data)
	require.NoError(t, err)
	require.Equal(t, HelloWorldData{Message: "Hello World", Timestamp: "2025-03-14T09:26:53Z"}, typed)
}

func TestListDatabases(t *testing.T) {
	result, err := newDemoServer(t).CallTool(context.Background(), ToolListDatabases, nil)
	require.NoError(t, err)
	require.Len(t, result.Content, 3)
	require.Equal(t, "Found 3 databases", result.Content[0].(*mcp.TextContent).Text)

	listing := result.Content[1].(*mcp.TextContent).Text
	require.Contains(t, listing, "Name: admin, Size: 245760 bytes\nName: config, Size: 49152 bytes\nName: myapp, Size: 1048576 bytes\n</untrusted-user-data-")

	_, data := uiResource(t, result)

	typed, err := schema.Decode[ListDatabasesData](data)
	require.NoError(t, err)
	require.Equal(t, ListDatabasesData{Databases: Databases, TotalCount: 3}, typed)
}

func TestClusterMetrics(t *testing.T) {
	result, err := newDemoServer(t).CallTool(context.Background(), ToolClusterMetrics, nil)
	require.NoError(t, err)
	require.Len(t, result.Content, 2)

	_, data := uiResource(t, result)

	series, ok := data["series"].([]any)
	require.True(t, ok)
	require.Len(t, series, 3)

	_, err = Validators().Validate(UIClusterMetrics, data)
	require.NoError(t, err)
}

func TestClusterMetricsSeries(t *testing.T) {
	series := ClusterMetrics(fixedNow)
	require.Len(t, series, 3)

	for _, s := range series {
		require.Len(t, s.Data, metricPoints)
		require.Equal(t, "2025-03-14T08:31:00Z", s.Data[0][0])
		require.Equal(t, "2025-03-14T09:26:00Z", s.Data[metricPoints-1][0])
	}

	require.Equal(t, series, ClusterMetrics(fixedNow), "series are deterministic")
}

func TestValidators(t *testing.T) {
	v := Validators()
	require.Equal(t, []string{UIClusterMetrics, UIListDatabases}, v.Tools())

	tests := []struct {
		name    string
		tool    string
		data    map[string]any
		wantErr bool
	}{
		{
			name: "valid databases",
			tool: UIListDatabases,
			data: map[string]any{"databases": []any{map[string]any{"name": "admin", "size": 1}}, "totalCount": 1},
		},
		{
			name:    "negative size",
			tool:    UIListDatabases,
			data:    map[string]any{"databases": []any{map[string]any{"name": "admin", "size": -1}}, "totalCount": 1},
			wantErr: true,
		},
		{
			name:    "missing totalCount",
			tool:    UIListDatabases,
			data:    map[string]any{"databases": []any{}},
			wantErr: true,
		},
		{
			name:    "point with three elements",
			tool:    UIClusterMetrics,
			data:    map[string]any{"series": []any{map[string]any{"name": "cpu", "data": []any{[]any{"t", 1, 2}}}}},
			wantErr: true,
		},
		{
			name:    "point value not a number",
			tool:    UIClusterMetrics,
			data:    map[string]any{"series": []any{map[string]any{"name": "cpu", "data": []any{[]any{"t", "x"}}}}},
			wantErr: true,
		},
		{
			name: "hello world has no schema",
			tool: UIHelloWorld,
			data: map[string]any{"anything": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.tool, tt.data)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestClusterMetricsFromText(t *testing.T) {
	_, err := ClusterMetricsFromText(nil)
	require.Error(t, err)

	_, err = ClusterMetricsFromText(&mcp.CallToolResult{})
	require.Error(t, err)

	_, err = ClusterMetricsFromText(internalmcp.TextResult("not json"))
	require.Error(t, err)

	data, err := ClusterMetricsFromText(internalmcp.TextResult(`[{"name":"cpu","data":[["t",1]]}]`))
	require.NoError(t, err)
	require.Len(t, data["series"], 1)
}

func TestBundleTargets(t *testing.T) {
	for name, target := range BundleTargets() {
		require.NoError(t, target.Validate(name))
		require.NotEmpty(t, target.Bundle)
	}

	for name, target := range ExternalTargets() {
		require.NoError(t, target.Validate(name))
		require.True(t, strings.HasPrefix(target.Route, "/"))
	}
}

func TestInvalidRenderDataSkipsUI(t *testing.T) {
	a := augment.New(&config.Options{Targets: ExternalTargets(), Validators: Validators()})

	original := internalmcp.TextResult("Found 1 database")
	out := a.Augment(original, UIListDatabases, map[string]any{"databases": "nope", "totalCount": 1})
	require.Same(t, original, out)
}
