// Package demo provides the sample UI tools served by cmd/mcpui-server:
// hello_world, cluster_metrics and list_databases, together with their
// render data types, schemas and UI targets.
package demo
