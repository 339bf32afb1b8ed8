package demo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcpui-go/internal/config"
)

// ExternalTargets serves every demo UI from the external micro-UI app.
func ExternalTargets() map[string]config.Target {
	return map[string]config.Target{
		UIHelloWorld:     {Route: "/HelloWorld"},
		UIClusterMetrics: {Route: "/ClusterMetrics", Transform: ClusterMetricsFromText},
		UIListDatabases:  {Route: "/ListDatabases"},
	}
}

// BundleTargets inlines every demo UI from prebuilt bundles.
func BundleTargets() map[string]config.Target {
	return map[string]config.Target{
		UIHelloWorld:     {Bundle: "helloWorld"},
		UIClusterMetrics: {Bundle: "clusterMetrics", Transform: ClusterMetricsFromText},
		UIListDatabases:  {Bundle: "listDatabases"},
	}
}

// ClusterMetricsFromText derives cluster-metrics render data from a result
// whose first text item is the JSON series array.
func ClusterMetricsFromText(result *mcp.CallToolResult) (map[string]any, error) {
	if result == nil {
		return nil, errors.New("no result")
	}

	for _, c := range result.Content {
		text, ok := c.(*mcp.TextContent)
		if !ok {
			continue
		}

		var series []any
		if err := json.Unmarshal([]byte(text.Text), &series); err != nil {
			return nil, fmt.Errorf("parse metrics series: %w", err)
		}

		return map[string]any{"series": series}, nil
	}

	return nil, errors.New("result has no text content")
}
