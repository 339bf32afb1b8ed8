package demo

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wagiedev/mcpui-go/internal/schema"
)

var (
	// ListDatabasesSchema requires named, non-negative sized databases.
	ListDatabasesSchema = schema.Object(map[string]*jsonschema.Schema{
		"databases": schema.ArrayOf(schema.Object(map[string]*jsonschema.Schema{
			"name": schema.NonEmptyString(),
			"size": schema.NonNegativeNumber(),
		})),
		"totalCount": schema.NonNegativeNumber(),
	})

	// ClusterMetricsSchema requires series of [timestamp, value] points.
	ClusterMetricsSchema = schema.Object(map[string]*jsonschema.Schema{
		"series": schema.ArrayOf(schema.Object(map[string]*jsonschema.Schema{
			"name": {Type: "string"},
			"data": schema.ArrayOf(schema.Tuple(&jsonschema.Schema{Type: "string"}, &jsonschema.Schema{Type: "number"})),
		})),
	})
)

// Validators returns a registry with the demo render data schemas.
// hello-world has no schema.
func Validators() *schema.Registry {
	r := schema.NewRegistry()
	r.Register(UIListDatabases, schema.MustJSONSchema(ListDatabasesSchema))
	r.Register(UIClusterMetrics, schema.MustJSONSchema(ClusterMetricsSchema))

	return r
}
