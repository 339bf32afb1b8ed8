package augment

import "github.com/wagiedev/mcpui-go/internal/config"

// Target is a resolved delivery target.
// Implementations: InlineBundle, ExternalRoute.
type Target interface {
	target() // marker method
}

// Compile-time verification that all targets implement Target.
var (
	_ Target = InlineBundle{}
	_ Target = ExternalRoute{}
)

// InlineBundle delivers a prebuilt bundle wrapped in an HTML shell.
type InlineBundle struct {
	Bundle string
}

func (InlineBundle) target() {}

// ExternalRoute delivers a page hosted under the external base URL.
type ExternalRoute struct {
	Route string
}

func (ExternalRoute) target() {}

// entry is one row of the target table.
type entry struct {
	target    Target
	transform config.TransformFunc
}

// resolveTarget converts a configured target into its typed form.
func resolveTarget(tool string, t config.Target) (entry, error) {
	if err := t.Validate(tool); err != nil {
		return entry{}, err
	}

	if t.Bundle != "" {
		return entry{target: InlineBundle{Bundle: t.Bundle}, transform: t.Transform}, nil
	}

	return entry{target: ExternalRoute{Route: t.Route}, transform: t.Transform}, nil
}
