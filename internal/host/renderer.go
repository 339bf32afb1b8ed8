package host

import (
	"encoding/json"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcpui-go/internal/config"
	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

// View is what the host shows for a tool result.
// Implementations: Placeholder, *Frame.
type View interface {
	view() // marker method
}

// Compile-time verification that all views implement View.
var (
	_ View = Placeholder{}
	_ View = (*Frame)(nil)
)

// PlaceholderReason explains why no UI is mounted.
type PlaceholderReason string

const (
	ReasonNoResponse   PlaceholderReason = "No UI to render yet. Execute a tool to see the rendered output."
	ReasonNoUIResource PlaceholderReason = "This response does not contain a UI resource."
)

// Placeholder is shown when there is nothing to mount.
type Placeholder struct {
	Reason PlaceholderReason
}

func (Placeholder) view() {}

// DataSource records where a Frame's render data came from.
type DataSource int

const (
	// SourceNone means no render data was found; the surface stays in its
	// loading state.
	SourceNone DataSource = iota
	// SourceMetadata means the resource carried its own initial render data.
	SourceMetadata
	// SourceText means the data was parsed from a text item of the result.
	SourceText
)

func (s DataSource) String() string {
	switch s {
	case SourceMetadata:
		return "metadata"
	case SourceText:
		return "text"
	default:
		return "none"
	}
}

// Frame is a UI resource ready to mount.
type Frame struct {
	Resource   *uiresource.Descriptor
	RenderData map[string]any
	Source     DataSource
}

func (*Frame) view() {}

// Renderer turns tool results into views and mounts frames.
type Renderer struct {
	log  *slog.Logger
	opts *config.Options
}

// NewRenderer creates a renderer.
func NewRenderer(opts *config.Options) *Renderer {
	if opts == nil {
		opts = &config.Options{}
	}

	return &Renderer{
		log:  opts.Log().With("component", "renderer"),
		opts: opts,
	}
}

// Render finds the first UI resource in result and sources its render data.
// Render data is taken, in order, from the resource metadata, from the first
// text item parsed as a JSON object, or left empty.
func (r *Renderer) Render(result *mcp.CallToolResult) View {
	if result == nil {
		return Placeholder{Reason: ReasonNoResponse}
	}

	d, _, ok := uiresource.Find(result.Content)
	if !ok {
		r.log.Debug("Result has no UI resource", "content_items", len(result.Content))

		return Placeholder{Reason: ReasonNoUIResource}
	}

	f := &Frame{Resource: d}

	if data, ok := d.RenderData(); ok {
		f.RenderData = data
		f.Source = SourceMetadata
	} else if data, ok := r.textRenderData(result.Content); ok {
		f.RenderData = data
		f.Source = SourceText
	}

	r.log.Debug("Rendering UI resource",
		"uri", d.URI,
		"mode", d.Delivery.Mode(),
		"data_source", f.Source,
	)

	return f
}

func (r *Renderer) textRenderData(contents []mcp.Content) (map[string]any, bool) {
	for _, c := range contents {
		text, ok := c.(*mcp.TextContent)
		if !ok {
			continue
		}

		var data map[string]any
		if err := json.Unmarshal([]byte(text.Text), &data); err != nil || data == nil {
			r.log.Debug("Text content is not JSON render data", "error", err)

			return nil, false
		}

		return data, true
	}

	return nil, false
}
