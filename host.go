package mcpui

import "github.com/wagiedev/mcpui-go/internal/host"

// NewRenderer creates a host renderer.
func NewRenderer(opts ...Option) *Renderer {
	return host.NewRenderer(applyOptions(opts))
}
