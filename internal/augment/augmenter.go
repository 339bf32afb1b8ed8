package augment

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"

	"github.com/wagiedev/mcpui-go/internal/bundle"
	"github.com/wagiedev/mcpui-go/internal/config"
	"github.com/wagiedev/mcpui-go/internal/errors"
	"github.com/wagiedev/mcpui-go/internal/schema"
	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

// Augmenter attaches UI resources to tool results.
type Augmenter struct {
	log        *slog.Logger
	baseURL    string
	encoding   uiresource.Encoding
	validators *schema.Registry
	bundles    *bundle.Loader

	mu      sync.RWMutex
	targets map[string]entry

	// newID mints the distinguishing URI suffix.
	newID func() string
}

// New creates an Augmenter from options.
// Invalid targets are skipped and logged; use Register to surface the error.
func New(opts *config.Options) *Augmenter {
	if opts == nil {
		opts = &config.Options{}
	}

	log := opts.Log().With("component", "augmenter")

	validators := opts.Validators
	if validators == nil {
		validators = schema.NewRegistry()
	}

	encoding := opts.Encoding
	if encoding == "" {
		encoding = uiresource.EncodingText
	}

	a := &Augmenter{
		log:        log,
		baseURL:    opts.BaseURL(),
		encoding:   encoding,
		validators: validators,
		bundles:    bundle.NewLoader(log, opts.BundleFS),
		targets:    make(map[string]entry, len(opts.Targets)),
		newID:      func() string { return ulid.Make().String() },
	}

	for tool, t := range opts.Targets {
		if err := a.Register(tool, t); err != nil {
			log.Warn("Skipping invalid UI target", "tool", tool, "error", err)
		}
	}

	return a
}

// Register adds or replaces the delivery target for a tool.
func (a *Augmenter) Register(tool string, t config.Target) error {
	e, err := resolveTarget(tool, t)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.targets[tool] = e
	a.log.Debug("Registered UI target", "tool", tool)

	return nil
}

// Validators returns the validator registry consulted before augmentation.
func (a *Augmenter) Validators() *schema.Registry {
	return a.validators
}

// Tools returns the tool names that have a delivery target, sorted.
func (a *Augmenter) Tools() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return slices.Sorted(maps.Keys(a.targets))
}

// HasTarget reports whether a tool has a delivery target.
func (a *Augmenter) HasTarget(tool string) bool {
	_, ok := a.lookup(tool)

	return ok
}

// ClearCache drops every memoized bundle.
func (a *Augmenter) ClearCache() {
	a.bundles.Clear()
}

// Augment returns result with a UI resource for tool appended.
//
// The input is never mutated. When the tool has no target, the render data
// fails validation, the bundle cannot be read, or the result already carries
// a UI resource for the tool, the original result is returned as is.
func (a *Augmenter) Augment(result *mcp.CallToolResult, tool string, renderData map[string]any) *mcp.CallToolResult {
	e, ok := a.lookup(tool)
	if !ok {
		return result
	}

	return a.augment(result, tool, e, renderData)
}

// AugmentResult is like Augment but derives render data with the target's
// transform. Targets without a transform attach the UI with no render data.
func (a *Augmenter) AugmentResult(result *mcp.CallToolResult, tool string) *mcp.CallToolResult {
	e, ok := a.lookup(tool)
	if !ok {
		return result
	}

	var renderData map[string]any

	if e.transform != nil {
		data, err := e.transform(result)
		if err != nil {
			a.log.Warn("Render data transform failed, skipping UI", "tool", tool, "error", err)

			return result
		}

		renderData = data
	}

	return a.augment(result, tool, e, renderData)
}

// Descriptor builds the UI resource descriptor for a tool without attaching it.
func (a *Augmenter) Descriptor(tool string, renderData map[string]any) (*uiresource.Descriptor, error) {
	e, ok := a.lookup(tool)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrNoTarget, tool)
	}

	// Absent render data is checked as JSON null against a registered schema.
	var data any
	if renderData != nil {
		data = renderData
	}

	if _, err := a.validators.Validate(tool, data); err != nil {
		return nil, &errors.ValidationError{Tool: tool, Err: err}
	}

	return a.descriptor(tool, e.target, renderData)
}

func (a *Augmenter) augment(
	result *mcp.CallToolResult,
	tool string,
	e entry,
	renderData map[string]any,
) *mcp.CallToolResult {
	log := a.log.With("tool", tool)

	if result != nil && alreadyAugmented(result, tool) {
		log.Debug("Result already carries a UI resource for tool, leaving it unchanged")

		return result
	}

	d, err := a.Descriptor(tool, renderData)
	if err != nil {
		var loadErr *errors.BundleLoadError
		if stderrors.As(err, &loadErr) {
			log.Error("Failed to load UI bundle, returning result without UI", "bundle", loadErr.Bundle, "error", err)
		} else {
			log.Warn("Skipping UI augmentation", "error", err)
		}

		return result
	}

	var out mcp.CallToolResult
	if result != nil {
		out = *result
	}

	out.Content = append(slices.Clone(out.Content), d.Content())

	log.Debug("Augmented tool result",
		"uri", d.URI,
		"mode", d.Delivery.Mode(),
		"content_items", len(out.Content),
	)

	return &out
}

func (a *Augmenter) descriptor(tool string, t Target, renderData map[string]any) (*uiresource.Descriptor, error) {
	var delivery uiresource.Delivery

	switch v := t.(type) {
	case InlineBundle:
		b, err := a.bundles.Load(v.Bundle)
		if err != nil {
			return nil, err
		}

		doc, err := bundle.Shell(b)
		if err != nil {
			return nil, &errors.BundleLoadError{Bundle: v.Bundle, Path: bundle.ScriptPath(v.Bundle), Err: err}
		}

		delivery = uiresource.RawHTML{HTML: doc}
	case ExternalRoute:
		target, err := externalURL(a.baseURL, v.Route)
		if err != nil {
			return nil, &errors.TargetConfigError{Tool: tool, Err: err}
		}

		delivery = uiresource.ExternalURL{URL: target}
	default:
		return nil, &errors.TargetConfigError{Tool: tool, Err: fmt.Errorf("unsupported target %T", t)}
	}

	d := &uiresource.Descriptor{
		URI:      uiresource.ToolURIPrefix(tool) + a.newID(),
		Delivery: delivery,
		Encoding: a.encoding,
	}

	if renderData != nil {
		d.Metadata = map[string]any{
			uiresource.MetadataKeyInitialRenderData: renderData,
		}
	}

	return d, nil
}

func (a *Augmenter) lookup(tool string) (entry, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	e, ok := a.targets[tool]

	return e, ok
}

// externalURL joins base and route and sets the wait-for-data flag.
func externalURL(base, route string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(base, "/") + route)
	if err != nil {
		return "", fmt.Errorf("build external url: %w", err)
	}

	q := u.Query()
	q.Set(config.WaitForRenderDataParam, "true")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func alreadyAugmented(result *mcp.CallToolResult, tool string) bool {
	prefix := uiresource.ToolURIPrefix(tool)

	for _, c := range result.Content {
		if d, ok := uiresource.FromContent(c); ok && strings.HasPrefix(d.URI, prefix) {
			return true
		}
	}

	return false
}
