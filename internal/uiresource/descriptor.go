package uiresource

import (
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// Scheme is the URI scheme prefix shared by all UI resources.
	Scheme = "ui://"

	// MetaPrefix namespaces UI metadata keys inside a resource's _meta object.
	MetaPrefix = "mcpui.dev/ui-"

	// MetadataKeyInitialRenderData holds the render data pushed to the embed after readiness.
	MetadataKeyInitialRenderData = "initial-render-data"

	// MIMETypeHTML marks inline HTML delivery.
	MIMETypeHTML = "text/html"

	// MIMETypeURIList marks external URL delivery.
	MIMETypeURIList = "text/uri-list"
)

// Encoding selects how the delivery payload is stored in the resource contents.
type Encoding string

const (
	// EncodingText stores the payload in the text field.
	EncodingText Encoding = "text"
	// EncodingBlob stores the payload as base64 bytes in the blob field.
	EncodingBlob Encoding = "blob"
)

// Descriptor is a UI resource attached to a tool result.
type Descriptor struct {
	URI      string
	Delivery Delivery
	Encoding Encoding
	// Metadata holds UI metadata keyed without MetaPrefix.
	Metadata map[string]any
}

// RenderData returns the render data embedded in the descriptor metadata.
func (d *Descriptor) RenderData() (map[string]any, bool) {
	if d == nil || d.Metadata == nil {
		return nil, false
	}

	data, ok := d.Metadata[MetadataKeyInitialRenderData].(map[string]any)

	return data, ok
}

// Content converts the descriptor into an MCP embedded resource content item.
func (d *Descriptor) Content() *mcp.EmbeddedResource {
	contents := &mcp.ResourceContents{
		URI: d.URI,
	}

	var payload string

	switch v := d.Delivery.(type) {
	case RawHTML:
		contents.MIMEType = MIMETypeHTML
		payload = v.HTML
	case ExternalURL:
		contents.MIMEType = MIMETypeURIList
		payload = v.URL
	}

	if d.Encoding == EncodingBlob {
		contents.Blob = []byte(payload)
	} else {
		contents.Text = payload
	}

	if len(d.Metadata) > 0 {
		meta := make(mcp.Meta, len(d.Metadata))
		for k, v := range d.Metadata {
			meta[MetaPrefix+k] = v
		}

		contents.Meta = meta
	}

	return &mcp.EmbeddedResource{Resource: contents}
}

// FromContent recognizes a UI resource by shape: an embedded resource with a
// ui:// URI and a MIME type naming one of the delivery modes.
func FromContent(c mcp.Content) (*Descriptor, bool) {
	res, ok := c.(*mcp.EmbeddedResource)
	if !ok || res == nil || res.Resource == nil {
		return nil, false
	}

	contents := res.Resource
	if !strings.HasPrefix(contents.URI, Scheme) {
		return nil, false
	}

	encoding := EncodingText
	payload := contents.Text

	if payload == "" && len(contents.Blob) > 0 {
		encoding = EncodingBlob
		payload = string(contents.Blob)
	}

	var delivery Delivery

	switch mimeBase(contents.MIMEType) {
	case MIMETypeHTML:
		delivery = RawHTML{HTML: payload}
	case MIMETypeURIList:
		delivery = ExternalURL{URL: firstURI(payload)}
	default:
		return nil, false
	}

	return &Descriptor{
		URI:      contents.URI,
		Delivery: delivery,
		Encoding: encoding,
		Metadata: uiMetadata(contents.Meta),
	}, true
}

// Find returns the first UI resource in contents and its index.
func Find(contents []mcp.Content) (*Descriptor, int, bool) {
	for i, c := range contents {
		if d, ok := FromContent(c); ok {
			return d, i, true
		}
	}

	return nil, -1, false
}

// ToolURIPrefix returns the URI prefix shared by every resource minted for a tool.
func ToolURIPrefix(tool string) string {
	return Scheme + tool + "/"
}

// uiMetadata strips MetaPrefix from UI keys and ignores everything else.
func uiMetadata(meta mcp.Meta) map[string]any {
	if len(meta) == 0 {
		return nil
	}

	out := make(map[string]any, len(meta))

	for k, v := range meta {
		if name, ok := strings.CutPrefix(k, MetaPrefix); ok {
			out[name] = v
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

// mimeBase drops MIME parameters such as ";profile=mcp-app".
func mimeBase(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")

	return strings.TrimSpace(strings.ToLower(base))
}

// firstURI returns the first non-comment line of a text/uri-list payload.
func firstURI(list string) string {
	for line := range strings.Lines(list) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		return line
	}

	return ""
}
