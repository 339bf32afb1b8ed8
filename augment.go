package mcpui

import "github.com/wagiedev/mcpui-go/internal/augment"

// NewAugmenter creates an Augmenter.
//
// Example:
//
//	a := mcpui.NewAugmenter(
//	    mcpui.WithTarget("hello-world", mcpui.Target{Bundle: "helloWorld"}),
//	    mcpui.WithBundleFS(os.DirFS("dist")),
//	)
//	result = a.Augment(result, "hello-world", map[string]any{"message": "Hello World"})
func NewAugmenter(opts ...Option) *Augmenter {
	return augment.New(applyOptions(opts))
}
