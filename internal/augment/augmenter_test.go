package augment

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcpui-go/internal/config"
	sdkerrors "github.com/wagiedev/mcpui-go/internal/errors"
	"github.com/wagiedev/mcpui-go/internal/schema"
	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

var listDatabasesSchema = schema.Object(map[string]*jsonschema.Schema{
	"databases": schema.ArrayOf(schema.Object(map[string]*jsonschema.Schema{
		"name": schema.NonEmptyString(),
		"size": schema.NonNegativeNumber(),
	})),
	"totalCount": schema.NonNegativeNumber(),
})

func newTestAugmenter(t *testing.T) *Augmenter {
	t.Helper()

	validators := schema.NewRegistry()
	validators.Register("list-databases", schema.MustJSONSchema(listDatabasesSchema))

	a := New(&config.Options{
		Logger: slog.Default(),
		Targets: map[string]config.Target{
			"hello-world":     {Bundle: "helloWorld"},
			"list-databases":  {Route: "/ListDatabases"},
			"broken-bundle":   {Bundle: "missing"},
			"cluster-metrics": {Bundle: "clusterMetrics"},
		},
		ExternalBaseURL: "https://ui.example.com/",
		BundleFS: fstest.MapFS{
			"helloWorld-bundle.js":     {Data: []byte("window.renderHelloWorld=function(){}")},
			"clusterMetrics-bundle.js": {Data: []byte("window.renderClusterMetrics=function(){}")},
		},
		Validators: validators,
	})

	var n int
	a.newID = func() string {
		n++

		return fmt.Sprintf("%04d", n)
	}

	return a
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func listDatabasesData() map[string]any {
	return map[string]any{
		"databases":  []map[string]any{{"name": "admin", "size": 245760}},
		"totalCount": 1,
	}
}

func TestAugment_ListDatabasesScenario(t *testing.T) {
	a := newTestAugmenter(t)
	original := textResult("Found 1 database")

	out := a.Augment(original, "list-databases", listDatabasesData())

	require.NotSame(t, original, out)
	require.Len(t, original.Content, 1, "input must not be mutated")
	require.Len(t, out.Content, 2)
	require.Same(t, original.Content[0], out.Content[0], "tool text stays first")

	d, ok := uiresource.FromContent(out.Content[1])
	require.True(t, ok)
	require.Equal(t, "ui://list-databases/0001", d.URI)
	require.Equal(t,
		uiresource.ExternalURL{URL: "https://ui.example.com/ListDatabases?waitForRenderData=true"},
		d.Delivery,
	)

	data, ok := d.RenderData()
	require.True(t, ok)
	require.Equal(t, 1, data["totalCount"])
}

func TestAugment_UnknownToolIsIdentity(t *testing.T) {
	a := newTestAugmenter(t)
	original := textResult("anything")

	out := a.Augment(original, "unknown-tool", map[string]any{"x": 1})

	require.Same(t, original, out)
	require.Equal(t, textResult("anything"), out)
}

func TestAugment_ValidationFailureIsIdentity(t *testing.T) {
	a := newTestAugmenter(t)
	original := textResult("Found 1 database")

	out := a.Augment(original, "list-databases", map[string]any{
		"databases":  []any{map[string]any{"name": "", "size": 1}},
		"totalCount": 1,
	})

	require.Same(t, original, out)
	require.Len(t, out.Content, 1)
}

func TestAugment_MissingRenderDataFailsSchema(t *testing.T) {
	a := newTestAugmenter(t)
	original := textResult("Found 1 database")

	require.Same(t, original, a.Augment(original, "list-databases", nil))
	require.Same(t, original, a.AugmentResult(original, "list-databases"))
	require.Len(t, original.Content, 1)

	_, err := a.Descriptor("list-databases", nil)

	var validationErr *sdkerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "list-databases", validationErr.Tool)
}

func TestAugment_InlineBundle(t *testing.T) {
	a := newTestAugmenter(t)

	out := a.Augment(textResult(""), "hello-world", map[string]any{"message": "Hello World"})
	require.Len(t, out.Content, 2)

	d, ok := uiresource.FromContent(out.Content[1])
	require.True(t, ok)

	raw, ok := d.Delivery.(uiresource.RawHTML)
	require.True(t, ok)
	require.Contains(t, raw.HTML, "window.renderHelloWorld=function(){}")
	require.Contains(t, raw.HTML, `window.renderHelloWorld("ui-container");`)
	require.True(t, a.bundles.Cached("helloWorld"))

	a.ClearCache()
	require.False(t, a.bundles.Cached("helloWorld"))
}

func TestAugment_BundleLoadFailureIsIdentity(t *testing.T) {
	a := newTestAugmenter(t)
	original := textResult("x")

	out := a.Augment(original, "broken-bundle", map[string]any{"a": 1})
	require.Same(t, original, out)
}

func TestAugment_ReaugmentIsNoop(t *testing.T) {
	a := newTestAugmenter(t)

	once := a.Augment(textResult("Found 1 database"), "list-databases", listDatabasesData())
	twice := a.Augment(once, "list-databases", listDatabasesData())

	require.Same(t, once, twice)
	require.Len(t, twice.Content, 2)
}

func TestAugment_NilResult(t *testing.T) {
	a := newTestAugmenter(t)

	require.Nil(t, a.Augment(nil, "unknown-tool", nil))

	out := a.Augment(nil, "hello-world", nil)
	require.NotNil(t, out)
	require.Len(t, out.Content, 1)

	d, ok := uiresource.FromContent(out.Content[0])
	require.True(t, ok)

	_, hasData := d.RenderData()
	require.False(t, hasData)
}

func TestAugment_PreservesResultFields(t *testing.T) {
	a := newTestAugmenter(t)
	original := &mcp.CallToolResult{
		Meta:              mcp.Meta{"trace": "abc"},
		Content:           []mcp.Content{&mcp.TextContent{Text: "a"}, &mcp.TextContent{Text: "b"}},
		StructuredContent: map[string]any{"k": "v"},
	}

	out := a.Augment(original, "hello-world", map[string]any{"message": "hi"})

	require.Len(t, out.Content, 3)
	require.Equal(t, original.Meta, out.Meta)
	require.Equal(t, original.StructuredContent, out.StructuredContent)
}

func TestAugment_DistinctURIs(t *testing.T) {
	a := New(&config.Options{Targets: map[string]config.Target{"t": {Route: "/T"}}})

	first, err := a.Descriptor("t", nil)
	require.NoError(t, err)

	second, err := a.Descriptor("t", nil)
	require.NoError(t, err)

	require.NotEqual(t, first.URI, second.URI)
	require.True(t, strings.HasPrefix(first.URI, "ui://t/"))
	require.Less(t, first.URI, second.URI, "ulid suffixes sort by creation")
}

func TestAugmentResult_Transform(t *testing.T) {
	a := newTestAugmenter(t)
	require.NoError(t, a.Register("cluster-metrics", config.Target{
		Bundle: "clusterMetrics",
		Transform: func(r *mcp.CallToolResult) (map[string]any, error) {
			text, ok := r.Content[0].(*mcp.TextContent)
			if !ok {
				return nil, errors.New("first item is not text")
			}

			return map[string]any{"raw": text.Text}, nil
		},
	}))

	out := a.AugmentResult(textResult("[1,2]"), "cluster-metrics")
	require.Len(t, out.Content, 2)

	d, _ := uiresource.FromContent(out.Content[1])
	data, ok := d.RenderData()
	require.True(t, ok)
	require.Equal(t, "[1,2]", data["raw"])

	failing := &mcp.CallToolResult{Content: []mcp.Content{&mcp.ImageContent{MIMEType: "image/png"}}}
	require.Same(t, failing, a.AugmentResult(failing, "cluster-metrics"))
}

func TestDescriptor_Errors(t *testing.T) {
	a := newTestAugmenter(t)

	_, err := a.Descriptor("nope", nil)
	require.ErrorIs(t, err, sdkerrors.ErrNoTarget)

	_, err = a.Descriptor("list-databases", map[string]any{})

	var vErr *sdkerrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "list-databases", vErr.Tool)
}

func TestRegister(t *testing.T) {
	a := New(nil)
	require.Empty(t, a.Tools())

	require.Error(t, a.Register("x", config.Target{}))
	require.NoError(t, a.Register("x", config.Target{Route: "/X"}))
	require.True(t, a.HasTarget("x"))
	require.Equal(t, []string{"x"}, a.Tools())
}

func TestNew_SkipsInvalidTargets(t *testing.T) {
	a := New(&config.Options{Targets: map[string]config.Target{
		"good": {Route: "/Good"},
		"bad":  {Bundle: "b", Route: "/b"},
	}})

	require.Equal(t, []string{"good"}, a.Tools())
}

func TestExternalURL(t *testing.T) {
	got, err := externalURL("http://localhost:3003", "/ClusterMetrics?theme=dark")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3003/ClusterMetrics?theme=dark&waitForRenderData=true", got)
}

func TestAugmentProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	a := newTestAugmenter(t)
	mapped := map[string]bool{}

	for _, tool := range a.Tools() {
		mapped[tool] = true
	}

	properties.Property("unmapped tool names are the identity", prop.ForAll(
		func(tool string, text string) bool {
			if mapped[tool] {
				return true
			}

			original := textResult(text)

			return a.Augment(original, tool, map[string]any{"text": text}) == original
		},
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.Property("invalid database sizes leave content length unchanged", prop.ForAll(
		func(size float64, name string) bool {
			original := textResult("x")
			out := a.Augment(original, "list-databases", map[string]any{
				"databases":  []any{map[string]any{"name": name, "size": size}},
				"totalCount": 1,
			})

			return out == original && len(out.Content) == 1
		},
		gen.Float64Range(-1e9, -0.001),
		gen.AlphaString(),
	))

	properties.Property("valid render data appends exactly one ui resource", prop.ForAll(
		func(name string, size float64, extra int) bool {
			content := make([]mcp.Content, 0, extra+1)
			for i := 0; i <= extra; i++ {
				content = append(content, &mcp.TextContent{Text: fmt.Sprint(i)})
			}

			original := &mcp.CallToolResult{Content: content}
			out := a.Augment(original, "list-databases", map[string]any{
				"databases":  []any{map[string]any{"name": "db" + name, "size": size}},
				"totalCount": 1,
			})

			if len(out.Content) != len(original.Content)+1 {
				return false
			}

			_, ok := uiresource.FromContent(out.Content[len(out.Content)-1])

			return ok
		},
		gen.AlphaString(),
		gen.Float64Range(0, 1e12),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}
