package bundle

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ContainerID is the id of the element the bundle renders into.
const ContainerID = "ui-container"

// RenderFunctionName returns the global entry point a bundle exposes,
// e.g. "clusterMetrics" becomes "renderClusterMetrics".
func RenderFunctionName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "render"
	}

	return "render" + string(unicode.ToUpper(r)) + name[size:]
}

// Shell wraps a bundle in a minimal HTML document that creates the root
// container, inlines the bundle's style and script, and invokes its entry point.
func Shell(b *Bundle) (string, error) {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	head := element(atom.Head)
	body := element(atom.Body)

	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "UTF-8"}))
	head.AppendChild(element(atom.Meta,
		html.Attribute{Key: "name", Val: "viewport"},
		html.Attribute{Key: "content", Val: "width=device-width, initial-scale=1.0"},
	))

	if b.CSS != "" {
		head.AppendChild(rawText(atom.Style, b.CSS))
	}

	body.AppendChild(element(atom.Div, html.Attribute{Key: "id", Val: ContainerID}))
	body.AppendChild(rawText(atom.Script, b.JS))
	body.AppendChild(rawText(atom.Script, entryCall(b.Name)))

	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func entryCall(name string) string {
	fn := RenderFunctionName(name)

	return "window." + fn + "(" + strconv.Quote(ContainerID) + ");"
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

// rawText creates a script or style element; html.Render writes their text unescaped.
func rawText(a atom.Atom, text string) *html.Node {
	n := element(a)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})

	return n
}
