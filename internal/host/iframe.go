package host

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

const (
	defaultIFrameStyle = "width: 100%; min-height: calc(100vh - 200px); border: none;"
	inlineSandbox      = "allow-scripts allow-forms"
	externalSandbox    = "allow-scripts allow-forms allow-same-origin"
)

// IFrameHTML renders the iframe element for the frame. Inline HTML is
// embedded through srcdoc and external URLs through src. Extra attributes
// override the defaults with the same key.
func (f *Frame) IFrameHTML(attrs ...html.Attribute) (string, error) {
	if f == nil || f.Resource == nil {
		return "", fmt.Errorf("render iframe: no resource")
	}

	base := []html.Attribute{
		{Key: "title", Val: f.Resource.URI},
		{Key: "style", Val: defaultIFrameStyle},
	}

	switch d := f.Resource.Delivery.(type) {
	case uiresource.RawHTML:
		base = append(base,
			html.Attribute{Key: "srcdoc", Val: d.HTML},
			html.Attribute{Key: "sandbox", Val: inlineSandbox},
		)
	case uiresource.ExternalURL:
		base = append(base,
			html.Attribute{Key: "src", Val: d.URL},
			html.Attribute{Key: "sandbox", Val: externalSandbox},
		)
	default:
		return "", fmt.Errorf("render iframe: unsupported delivery %T", f.Resource.Delivery)
	}

	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Iframe,
		Data:     "iframe",
		Attr:     mergeAttrs(base, attrs),
	}

	var sb strings.Builder
	if err := html.Render(&sb, node); err != nil {
		return "", fmt.Errorf("render iframe: %w", err)
	}

	return sb.String(), nil
}

func mergeAttrs(base, extra []html.Attribute) []html.Attribute {
	out := make([]html.Attribute, 0, len(base)+len(extra))

	for _, a := range base {
		overridden := false

		for _, e := range extra {
			if e.Key == a.Key {
				overridden = true

				break
			}
		}

		if !overridden {
			out = append(out, a)
		}
	}

	return append(out, extra...)
}
