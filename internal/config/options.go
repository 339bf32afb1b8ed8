// Package config holds the option set shared by the augmenter, the host
// renderer and the embedded runtime, plus the loader for target tables.
package config

import (
	"io/fs"
	"log/slog"
	"time"

	"github.com/wagiedev/mcpui-go/internal/schema"
	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

const (
	// DefaultExternalBaseURL is the micro-UI app used for route targets when none is configured.
	DefaultExternalBaseURL = "https://mcp-ui-mcp-ui-app.vercel.app"

	// WaitForRenderDataParam is appended to external URLs so the remote page
	// waits for the render-data push instead of drawing defaults.
	WaitForRenderDataParam = "waitForRenderData"
)

// Options configures the toolkit components.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Targets maps UI tool names to their delivery target.
	Targets map[string]Target

	// ExternalBaseURL prefixes route targets.
	// Defaults to DefaultExternalBaseURL.
	ExternalBaseURL string

	// BundleFS holds prebuilt bundles for inline HTML targets.
	BundleFS fs.FS

	// Validators holds per-tool render data validators.
	Validators *schema.Registry

	// Encoding selects how descriptor payloads are stored. Defaults to text.
	Encoding uiresource.Encoding

	// AllowedOrigins restricts which message origins the host and embedded
	// runtime accept. Glob patterns; empty means any origin.
	AllowedOrigins []string

	// ActionRate caps forwarded actions per second per embed. Zero disables the limit.
	ActionRate float64

	// ActionBurst is the burst size for ActionRate. Defaults to 1 when a rate is set.
	ActionBurst int

	// ReadyTimeout logs a warning when an embed has not signalled readiness in time.
	// Zero waits indefinitely without warning.
	ReadyTimeout time.Duration

	// RuntimeValidator validates render data inside the embedded runtime.
	RuntimeValidator schema.Validator
}

// BaseURL returns the configured external base URL or the default.
func (o *Options) BaseURL() string {
	if o.ExternalBaseURL != "" {
		return o.ExternalBaseURL
	}

	return DefaultExternalBaseURL
}

// Log returns the configured logger or a discarding one.
func (o *Options) Log() *slog.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}

	return slog.New(slog.DiscardHandler)
}
