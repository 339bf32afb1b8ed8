package host

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/wagiedev/mcpui-go/internal/channel"
	"github.com/wagiedev/mcpui-go/internal/errors"
	"github.com/wagiedev/mcpui-go/internal/handshake"
)

// ActionHandler handles actions emitted by an embedded surface.
type ActionHandler interface {
	HandleAction(ctx context.Context, embedID string, action handshake.Action) error
}

// ActionHandlerFunc adapts a function to the ActionHandler interface.
type ActionHandlerFunc func(ctx context.Context, embedID string, action handshake.Action) error

// HandleAction implements ActionHandler.
func (f ActionHandlerFunc) HandleAction(ctx context.Context, embedID string, action handshake.Action) error {
	return f(ctx, embedID, action)
}

// EmbedState is the handshake state of a mounted embed.
type EmbedState int

const (
	// StateAwaitingReady means the surface has not announced readiness.
	StateAwaitingReady EmbedState = iota
	// StateAwaitingData means the surface is ready but there is no data to push.
	StateAwaitingData
	// StateDelivered means render data has been pushed at least once.
	StateDelivered
	// StateClosed means the embed was unmounted.
	StateClosed
)

func (s EmbedState) String() string {
	switch s {
	case StateAwaitingReady:
		return "awaiting-ready"
	case StateAwaitingData:
		return "awaiting-data"
	case StateDelivered:
		return "delivered"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Embed drives the handshake for one mounted frame.
type Embed struct {
	id      string
	log     *slog.Logger
	port    channel.Port
	handler ActionHandler
	origins *channel.OriginPolicy
	limiter *rate.Limiter

	readyTimeout time.Duration

	mu         sync.Mutex
	state      EmbedState
	data       map[string]any
	hasData    bool
	deliveries int

	done      chan struct{}
	closeOnce sync.Once
}

// Mount attaches frame to port. Call Run to start processing messages.
// handler may be nil, in which case actions are only acknowledged.
func (r *Renderer) Mount(frame *Frame, port channel.Port, handler ActionHandler) (*Embed, error) {
	if frame == nil || frame.Resource == nil {
		return nil, errors.ErrNotMounted
	}

	origins, err := channel.NewOriginPolicy(r.opts.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()

	e := &Embed{
		id:           id,
		log:          r.log.With("embed_id", id, "uri", frame.Resource.URI),
		port:         port,
		handler:      handler,
		origins:      origins,
		readyTimeout: r.opts.ReadyTimeout,
		data:         frame.RenderData,
		hasData:      frame.RenderData != nil,
		done:         make(chan struct{}),
	}

	if r.opts.ActionRate > 0 {
		burst := r.opts.ActionBurst
		if burst <= 0 {
			burst = 1
		}

		e.limiter = rate.NewLimiter(rate.Limit(r.opts.ActionRate), burst)
	}

	e.log.Debug("Mounted embed", "data_source", frame.Source)

	return e, nil
}

// ID returns the embed instance id.
func (e *Embed) ID() string {
	return e.id
}

// State returns the current handshake state.
func (e *Embed) State() EmbedState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Deliveries returns how many times render data was pushed.
func (e *Embed) Deliveries() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.deliveries
}

// Done is closed when the embed is unmounted.
func (e *Embed) Done() <-chan struct{} {
	return e.done
}

// Run processes messages from the surface until ctx ends, the channel closes,
// or Unmount is called. The embed is unmounted when Run returns.
func (e *Embed) Run(ctx context.Context) error {
	defer e.Unmount()

	if e.readyTimeout > 0 {
		timer := time.AfterFunc(e.readyTimeout, func() {
			if e.State() == StateAwaitingReady {
				e.log.Warn("Embed has not signalled readiness", "timeout", e.readyTimeout)
			}
		})
		defer timer.Stop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-e.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		f, err := e.port.Receive(ctx)
		if err != nil {
			if stderrors.Is(err, errors.ErrChannelClosed) || e.closed() {
				return nil
			}

			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("receive: %w", err)
		}

		e.Handle(ctx, f)
	}
}

// Handle processes one frame from the surface.
func (e *Embed) Handle(ctx context.Context, f channel.Frame) {
	if !e.origins.Allow(f.Origin) {
		e.log.Warn("Dropping message from disallowed origin", "origin", f.Origin, "error", errors.ErrOriginRejected)

		return
	}

	msg, err := handshake.Parse(f.Data)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnknownMessageType) {
			e.log.Debug("Ignoring unrelated message", "error", err)
		} else {
			e.log.Warn("Dropping malformed message", "error", err)
		}

		return
	}

	switch m := msg.(type) {
	case handshake.Ready:
		e.onReady(ctx)
	case handshake.Action:
		e.onAction(ctx, m)
	default:
		e.log.Debug("Ignoring message", "type", msg.Type())
	}
}

// Push sets the render data for the surface. Before readiness it is queued,
// replacing any earlier queued data; afterwards it is sent immediately.
func (e *Embed) Push(ctx context.Context, data map[string]any) error {
	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()

		return errors.ErrEmbedClosed
	}

	e.data = data
	e.hasData = true
	ready := e.state != StateAwaitingReady
	e.mu.Unlock()

	if !ready {
		e.log.Debug("Queued render data until the surface is ready")

		return nil
	}

	return e.deliver(ctx)
}

// Unmount stops the embed and closes its port. Undelivered data is dropped.
func (e *Embed) Unmount() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.state = StateClosed
		e.mu.Unlock()

		close(e.done)

		if err := e.port.Close(); err != nil {
			e.log.Debug("Close port", "error", err)
		}

		e.log.Debug("Unmounted embed")
	})
}

func (e *Embed) closed() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

func (e *Embed) onReady(ctx context.Context) {
	e.mu.Lock()
	if e.state == StateClosed {
		e.mu.Unlock()

		return
	}

	hasData := e.hasData
	if !hasData {
		e.state = StateAwaitingData
	}
	e.mu.Unlock()

	e.log.Debug("Surface is ready", "has_data", hasData)

	if !hasData {
		return
	}

	if err := e.deliver(ctx); err != nil {
		e.log.Warn("Failed to push render data", "error", err)
	}
}

func (e *Embed) deliver(ctx context.Context) error {
	e.mu.Lock()
	data := e.data
	e.mu.Unlock()

	raw, err := handshake.Marshal(handshake.RenderData{Data: data})
	if err != nil {
		return err
	}

	if err := e.port.Send(ctx, raw); err != nil {
		return fmt.Errorf("push render data: %w", err)
	}

	e.mu.Lock()
	if e.state != StateClosed {
		e.state = StateDelivered
	}
	e.deliveries++
	n := e.deliveries
	e.mu.Unlock()

	e.log.Debug("Pushed render data", "deliveries", n)

	return nil
}

func (e *Embed) onAction(ctx context.Context, a handshake.Action) {
	log := e.log.With("action", a.Type(), "message_id", a.ID())

	var resp handshake.Response

	switch {
	case e.limiter != nil && !e.limiter.Allow():
		log.Warn("Rejecting action", "error", errors.ErrActionRateLimited)
		resp = handshake.Reject(a, errors.ErrActionRateLimited)
	case e.handler == nil:
		log.Debug("No action handler, acknowledging")
		resp = handshake.Ack(a)
	default:
		if err := e.handler.HandleAction(ctx, e.id, a); err != nil {
			log.Warn("Action handler failed", "error", err)
			resp = handshake.Reject(a, err)
		} else {
			log.Debug("Action handled")
			resp = handshake.Ack(a)
		}
	}

	raw, err := handshake.Marshal(resp)
	if err != nil {
		log.Error("Failed to encode action response", "error", err)

		return
	}

	if err := e.port.Send(ctx, raw); err != nil {
		log.Warn("Failed to acknowledge action", "error", err)
	}
}
