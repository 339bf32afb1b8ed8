package mcpui

import (
	"io/fs"
	"log/slog"
	"time"

	"github.com/wagiedev/mcpui-go/internal/config"
	"github.com/wagiedev/mcpui-go/internal/schema"
)

// Options configures augmenters, servers, renderers and runtimes.
type Options = config.Options

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// ===== Augmentation =====

// WithTargets adds UI delivery targets keyed by UI tool name.
func WithTargets(targets map[string]Target) Option {
	return func(o *Options) {
		if o.Targets == nil {
			o.Targets = make(map[string]Target, len(targets))
		}

		for tool, t := range targets {
			o.Targets[tool] = t
		}
	}
}

// WithTarget adds one UI delivery target.
func WithTarget(tool string, target Target) Option {
	return WithTargets(map[string]Target{tool: target})
}

// WithTargetFile applies a target table loaded with LoadTargets or
// LoadTargetsFile. A base URL in the file overrides WithExternalBaseURL.
func WithTargetFile(file *TargetFile) Option {
	return func(o *Options) {
		if file == nil {
			return
		}

		if file.ExternalBaseURL != "" {
			o.ExternalBaseURL = file.ExternalBaseURL
		}

		WithTargets(file.Targets)(o)
	}
}

// WithExternalBaseURL sets the base address route targets are resolved against.
func WithExternalBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.ExternalBaseURL = baseURL
	}
}

// WithBundleFS sets the file system prebuilt bundles are read from.
// Bundles are named <bundle>-bundle.js with an optional <bundle>-bundle.css.
func WithBundleFS(fsys fs.FS) Option {
	return func(o *Options) {
		o.BundleFS = fsys
	}
}

// WithValidator registers a render data validator for a UI tool.
func WithValidator(tool string, v Validator) Option {
	return func(o *Options) {
		if o.Validators == nil {
			o.Validators = schema.NewRegistry()
		}

		o.Validators.Register(tool, v)
	}
}

// WithValidators uses an existing validator registry.
func WithValidators(registry *ValidatorRegistry) Option {
	return func(o *Options) {
		o.Validators = registry
	}
}

// WithEncoding selects how UI resource payloads are stored: EncodingText or EncodingBlob.
func WithEncoding(encoding Encoding) Option {
	return func(o *Options) {
		o.Encoding = encoding
	}
}

// ===== Embedding =====

// WithAllowedOrigins restricts the message origins accepted by embeds and
// runtimes. Patterns are globs such as "https://*.example.com".
// Without this option every origin is accepted.
func WithAllowedOrigins(patterns ...string) Option {
	return func(o *Options) {
		o.AllowedOrigins = append(o.AllowedOrigins, patterns...)
	}
}

// WithActionRateLimit caps forwarded actions per embed at perSecond with the
// given burst. Actions over the limit are answered with an error response.
func WithActionRateLimit(perSecond float64, burst int) Option {
	return func(o *Options) {
		o.ActionRate = perSecond
		o.ActionBurst = burst
	}
}

// WithReadyTimeout logs a warning when an embed has not announced readiness
// within d. The embed keeps waiting.
func WithReadyTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ReadyTimeout = d
	}
}

// WithRuntimeValidator validates render data inside the embedded runtime.
func WithRuntimeValidator(v Validator) Option {
	return func(o *Options) {
		o.RuntimeValidator = v
	}
}
