package embed

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/wagiedev/mcpui-go/internal/channel"
	"github.com/wagiedev/mcpui-go/internal/config"
	"github.com/wagiedev/mcpui-go/internal/errors"
	"github.com/wagiedev/mcpui-go/internal/handshake"
	"github.com/wagiedev/mcpui-go/internal/schema"
)

// phase tracks the handshake from the embed's point of view.
type phase int

const (
	phaseAwaitingReady phase = iota // ready not yet announced
	phaseAwaitingData
	phaseReceived
)

// Runtime drives the handshake inside an embedded surface.
type Runtime struct {
	log       *slog.Logger
	port      channel.Port
	validator schema.Validator
	origins   *channel.OriginPolicy
	newID     func() string

	mu      sync.Mutex
	phase   phase
	state   State
	pending *handshake.RenderData
	changed chan struct{}
	subs    map[int]func(State)
	nextSub int
}

// New creates a runtime speaking over port.
func New(port channel.Port, opts *config.Options) (*Runtime, error) {
	if opts == nil {
		opts = &config.Options{}
	}

	origins, err := channel.NewOriginPolicy(opts.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		log:       opts.Log().With("component", "embed_runtime"),
		port:      port,
		validator: opts.RuntimeValidator,
		origins:   origins,
		newID:     uuid.NewString,
		state:     State{Status: StatusLoading},
		changed:   make(chan struct{}),
		subs:      make(map[int]func(State)),
	}, nil
}

// Start announces readiness to the host. Only the first call sends; a render
// data message that arrived before Start is applied right after.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.phase != phaseAwaitingReady {
		r.mu.Unlock()

		return nil
	}

	raw, err := handshake.Marshal(handshake.Ready{})
	if err != nil {
		r.mu.Unlock()

		return err
	}

	if err := r.port.Send(ctx, raw); err != nil {
		r.mu.Unlock()

		return fmt.Errorf("send ready: %w", err)
	}

	r.phase = phaseAwaitingData
	pending := r.pending
	r.pending = nil
	r.mu.Unlock()

	r.log.Debug("Announced readiness")

	if pending != nil {
		r.log.Debug("Applying render data received before readiness")
		r.apply(*pending)
	}

	return nil
}

// Run starts the runtime and processes inbound frames until ctx ends or the
// channel closes.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	for {
		f, err := r.port.Receive(ctx)
		if err != nil {
			if stderrors.Is(err, errors.ErrChannelClosed) {
				return nil
			}

			return err
		}

		r.Handle(f)
	}
}

// Handle processes one inbound frame.
func (r *Runtime) Handle(f channel.Frame) {
	if !r.origins.Allow(f.Origin) {
		r.log.Warn("Dropping message from disallowed origin", "origin", f.Origin)

		return
	}

	msg, err := handshake.Parse(f.Data)
	if err != nil {
		r.handleParseError(err)

		return
	}

	switch m := msg.(type) {
	case handshake.RenderData:
		r.mu.Lock()
		if r.phase == phaseAwaitingReady {
			r.pending = &m
			r.mu.Unlock()
			r.log.Debug("Queued render data until readiness is announced")

			return
		}
		r.mu.Unlock()

		r.apply(m)
	case handshake.Response:
		r.log.Debug("Action acknowledged", "message_id", m.MessageID, "status", m.Status, "error", m.Error)
	default:
		r.log.Debug("Ignoring message", "type", msg.Type())
	}
}

func (r *Runtime) handleParseError(err error) {
	var parseErr *errors.MessageParseError
	if !stderrors.As(err, &parseErr) || parseErr.Type != string(handshake.TypeRenderData) {
		r.log.Debug("Ignoring unrelated message", "error", err)

		return
	}

	r.log.Error("Received malformed render data", "error", err)

	r.mu.Lock()
	if r.phase == phaseAwaitingReady {
		r.mu.Unlock()

		return
	}
	r.mu.Unlock()

	r.setState(State{Status: StatusError, Err: err})
}

func (r *Runtime) apply(m handshake.RenderData) {
	r.mu.Lock()
	r.phase = phaseReceived
	current := r.state
	r.mu.Unlock()

	if m.Data == nil {
		r.log.Warn("Received empty render data")

		if current.Status == StatusReady {
			return
		}

		r.setState(State{Status: StatusLoading})

		return
	}

	data := m.Data

	if r.validator != nil {
		validated, err := r.validator.Validate(data)
		if err != nil {
			r.log.Error("Render data failed validation", "error", err)
			r.setState(State{Status: StatusError, Err: fmt.Errorf("invalid render data: %w", err)})

			return
		}

		if v, ok := validated.(map[string]any); ok {
			data = v
		}
	}

	r.setState(State{Status: StatusReady, Data: data})
}

func (r *Runtime) setState(s State) {
	r.mu.Lock()
	r.state = s
	close(r.changed)
	r.changed = make(chan struct{})

	subs := make([]func(State), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	r.log.Debug("State changed", "status", s.Status)

	for _, fn := range subs {
		fn(s)
	}
}

// State returns the current state.
func (r *Runtime) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.state
}

// Subscribe registers fn to be called on every state change and returns a
// function that removes it.
func (r *Runtime) Subscribe(fn func(State)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Wait blocks until cond holds for the current state or ctx ends.
func (r *Runtime) Wait(ctx context.Context, cond func(State) bool) (State, error) {
	for {
		r.mu.Lock()
		s, changed := r.state, r.changed
		r.mu.Unlock()

		if cond(s) {
			return s, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

// SendTool asks the host to call a tool and returns the message id.
func (r *Runtime) SendTool(ctx context.Context, toolName string, params map[string]any) (string, error) {
	id := r.newID()

	return id, r.send(ctx, handshake.ToolAction{MessageID: id, ToolName: toolName, Params: params})
}

// SendIntent forwards an intent to the host and returns the message id.
func (r *Runtime) SendIntent(ctx context.Context, intent string, params map[string]any) (string, error) {
	id := r.newID()

	return id, r.send(ctx, handshake.IntentAction{MessageID: id, Intent: intent, Params: params})
}

// Notify asks the host to show a message. An empty level means info.
func (r *Runtime) Notify(ctx context.Context, message string, level handshake.Level) (string, error) {
	if level == "" {
		level = handshake.LevelInfo
	}

	if !level.Valid() {
		return "", fmt.Errorf("unknown notification level %q", level)
	}

	id := r.newID()

	return id, r.send(ctx, handshake.NotifyAction{MessageID: id, Message: message, Level: level})
}

func (r *Runtime) send(ctx context.Context, a handshake.Action) error {
	raw, err := handshake.Marshal(a)
	if err != nil {
		return err
	}

	if err := r.port.Send(ctx, raw); err != nil {
		return fmt.Errorf("send %s action: %w", a.Type(), err)
	}

	return nil
}
