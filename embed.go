package mcpui

import "github.com/wagiedev/mcpui-go/internal/embed"

// NewRuntime creates an embedded runtime speaking over port.
// It returns an error when an allowed origin pattern does not compile.
func NewRuntime(port Port, opts ...Option) (*Runtime, error) {
	return embed.New(port, applyOptions(opts))
}
