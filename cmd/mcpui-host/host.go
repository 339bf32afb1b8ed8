package main

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	mcpui "github.com/wagiedev/mcpui-go"
)

// toolCaller is the part of *mcpui.Client the host pages need.
type toolCaller interface {
	mcpui.ActionHandler
	ListTools(ctx context.Context) ([]*mcpui.Tool, error)
	CallTool(ctx context.Context, name string, args map[string]any) (*mcpui.CallToolResult, error)
	Renderer() *mcpui.Renderer
}

// pendingTTL bounds how long a rendered frame waits for its page to open the
// bridge. Pages that never connect leave nothing behind once it passes.
const pendingTTL = 2 * time.Minute

type parkedFrame struct {
	frame   *mcpui.Frame
	expires time.Time
}

type host struct {
	ctx    context.Context
	client toolCaller
	log    *slog.Logger
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	pending map[string]parkedFrame
	embeds  map[string]*mcpui.Embed
}

func newHost(ctx context.Context, client toolCaller, logger *slog.Logger) *host {
	if logger == nil {
		logger = mcpui.NopLogger()
	}

	return &host{
		ctx:     ctx,
		client:  client,
		log:     logger.With("component", "host"),
		ttl:     pendingTTL,
		now:     time.Now,
		pending: make(map[string]parkedFrame),
		embeds:  make(map[string]*mcpui.Embed),
	}
}

func (h *host) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(h.log.Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/", h.handlePage)
	r.Get("/bridge", h.handleBridge)

	return r
}

func (h *host) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{Tool: r.URL.Query().Get("tool")}

	tools, err := h.client.ListTools(r.Context())
	if err != nil {
		h.log.Error("Failed to list tools", "error", err)
		data.Error = err.Error()
	}

	for _, t := range tools {
		data.Tools = append(data.Tools, t.Name)
	}

	var result *mcpui.CallToolResult

	if data.Tool != "" && data.Error == "" {
		result, err = h.client.CallTool(r.Context(), data.Tool, nil)
		if err != nil {
			h.log.Error("Tool call failed", "tool", data.Tool, "error", err)
			data.Error = err.Error()
		}
	}

	switch v := h.client.Renderer().Render(result).(type) {
	case mcpui.Placeholder:
		data.Placeholder = string(v.Reason)
	case *mcpui.Frame:
		markup, err := v.IFrameHTML(html.Attribute{Key: "id", Val: "ui"})
		if err != nil {
			data.Error = err.Error()

			break
		}

		//nolint:gosec // markup is produced by the html renderer, which escapes attribute values
		data.IFrame = template.HTML(markup)
		data.Token = h.park(v)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := page.Execute(w, data); err != nil {
		h.log.Error("Failed to render page", "error", err)
	}
}

// park holds a rendered frame until its page opens the bridge or the token
// expires. Expired tokens are swept on each park.
func (h *host) park(f *mcpui.Frame) string {
	token := uuid.NewString()
	now := h.now()

	h.mu.Lock()
	defer h.mu.Unlock()

	for t, p := range h.pending {
		if !now.Before(p.expires) {
			delete(h.pending, t)
		}
	}

	h.pending[token] = parkedFrame{frame: f, expires: now.Add(h.ttl)}

	return token
}

func (h *host) claim(token string) (*mcpui.Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.pending[token]
	delete(h.pending, token)

	if !ok || !h.now().Before(p.expires) {
		return nil, false
	}

	return p.frame, true
}

func (h *host) handleBridge(w http.ResponseWriter, r *http.Request) {
	frame, ok := h.claim(r.URL.Query().Get("token"))
	if !ok {
		http.Error(w, "unknown bridge token", http.StatusNotFound)

		return
	}

	port, err := mcpui.UpgradeWebSocket(w, r, "http://"+r.Host)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "error", err)

		return
	}

	embed, err := h.client.Renderer().Mount(frame, port, h.client)
	if err != nil {
		h.log.Error("Mount failed", "error", err)
		_ = port.Close()

		return
	}

	h.mu.Lock()
	h.embeds[embed.ID()] = embed
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.embeds, embed.ID())
			h.mu.Unlock()
		}()

		if err := embed.Run(h.ctx); err != nil {
			h.log.Warn("Embed stopped", "embed_id", embed.ID(), "error", err)
		}

		h.log.Debug("Embed finished", "embed_id", embed.ID(), "deliveries", embed.Deliveries())
	}()
}

func (h *host) unmountAll() {
	h.mu.Lock()
	embeds := make([]*mcpui.Embed, 0, len(h.embeds))
	for _, e := range h.embeds {
		embeds = append(embeds, e)
	}
	h.mu.Unlock()

	for _, e := range embeds {
		e.Unmount()
	}
}
