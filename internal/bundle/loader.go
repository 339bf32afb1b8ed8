package bundle

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/wagiedev/mcpui-go/internal/errors"
)

// Bundle is the static content of one prebuilt UI.
type Bundle struct {
	Name string
	JS   string
	CSS  string
}

// Loader reads bundles from a file system and caches them by name.
type Loader struct {
	log  *slog.Logger
	fsys fs.FS

	mu    sync.RWMutex
	cache map[string]*Bundle

	group singleflight.Group
}

// NewLoader creates a loader reading from fsys.
func NewLoader(log *slog.Logger, fsys fs.FS) *Loader {
	return &Loader{
		log:   log.With("component", "bundle_loader"),
		fsys:  fsys,
		cache: make(map[string]*Bundle, 4),
	}
}

// ScriptPath returns the file name of a bundle's script.
func ScriptPath(name string) string {
	return name + "-bundle.js"
}

// StylePath returns the file name of a bundle's optional stylesheet.
func StylePath(name string) string {
	return name + "-bundle.css"
}

// Load returns the named bundle, reading it at most once.
// Concurrent first loads of the same name share a single read.
func (l *Loader) Load(name string) (*Bundle, error) {
	l.mu.RLock()
	b, ok := l.cache[name]
	l.mu.RUnlock()

	if ok {
		return b, nil
	}

	v, err, _ := l.group.Do(name, func() (any, error) {
		l.mu.RLock()
		cached, ok := l.cache[name]
		l.mu.RUnlock()

		if ok {
			return cached, nil
		}

		loaded, err := l.read(name)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cache[name] = loaded
		l.mu.Unlock()

		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Bundle), nil
}

// Cached reports whether a bundle is in the cache.
func (l *Loader) Cached(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.cache[name]

	return ok
}

// Clear drops every cached bundle.
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(l.cache)
	l.log.Debug("Bundle cache cleared")
}

func (l *Loader) read(name string) (*Bundle, error) {
	if l.fsys == nil {
		return nil, &errors.BundleLoadError{Bundle: name, Path: ScriptPath(name), Err: fs.ErrNotExist}
	}

	js, err := fs.ReadFile(l.fsys, ScriptPath(name))
	if err != nil {
		return nil, &errors.BundleLoadError{Bundle: name, Path: ScriptPath(name), Err: err}
	}

	b := &Bundle{Name: name, JS: string(js)}

	css, err := fs.ReadFile(l.fsys, StylePath(name))

	switch {
	case err == nil:
		b.CSS = string(css)
	case stderrors.Is(err, fs.ErrNotExist):
		// Styles are usually compiled into the script.
	default:
		return nil, &errors.BundleLoadError{Bundle: name, Path: StylePath(name), Err: err}
	}

	l.log.Debug("Loaded bundle", "bundle", name, "js_bytes", len(b.JS), "css_bytes", len(b.CSS))

	return b, nil
}
