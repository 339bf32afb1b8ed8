package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/mcpui-go/internal/channel"
	"github.com/wagiedev/mcpui-go/internal/config"
	sdkerrors "github.com/wagiedev/mcpui-go/internal/errors"
	"github.com/wagiedev/mcpui-go/internal/handshake"
	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

const embedOrigin = "https://ui.example.com"

type embedFixture struct {
	embed   *Embed
	surface channel.Port
}

func mount(t *testing.T, opts *config.Options, data map[string]any, handler ActionHandler) embedFixture {
	t.Helper()

	hostPort, surface := channel.Pipe("https://host.example.com", embedOrigin)
	t.Cleanup(func() { _ = surface.Close() })

	frame := &Frame{
		Resource:   &uiresource.Descriptor{URI: "ui://list-databases/01", Delivery: uiresource.ExternalURL{URL: "https://ui.example.com/x"}},
		RenderData: data,
	}
	if data != nil {
		frame.Source = SourceMetadata
	}

	e, err := NewRenderer(opts).Mount(frame, hostPort, handler)
	require.NoError(t, err)

	return embedFixture{embed: e, surface: surface}
}

func (f embedFixture) send(t *testing.T, m handshake.Message) {
	t.Helper()

	raw, err := handshake.Marshal(m)
	require.NoError(t, err)

	f.embed.Handle(context.Background(), channel.Frame{Origin: embedOrigin, Data: raw})
}

func (f embedFixture) receive(t *testing.T) handshake.Message {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	frame, err := f.surface.Receive(ctx)
	require.NoError(t, err)

	msg, err := handshake.Parse(frame.Data)
	require.NoError(t, err)

	return msg
}

func (f embedFixture) requireSilent(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.surface.Receive(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMount_NoFrame(t *testing.T) {
	hostPort, _ := channel.Pipe("h", "e")

	_, err := NewRenderer(nil).Mount(nil, hostPort, nil)
	require.ErrorIs(t, err, sdkerrors.ErrNotMounted)
}

func TestEmbed_PushesDataAfterReady(t *testing.T) {
	data := map[string]any{"totalCount": float64(1)}
	f := mount(t, nil, data, nil)

	require.Equal(t, StateAwaitingReady, f.embed.State())
	f.requireSilent(t)

	f.send(t, handshake.Ready{})

	require.Equal(t, handshake.RenderData{Data: data}, f.receive(t))
	require.Equal(t, StateDelivered, f.embed.State())
	require.Equal(t, 1, f.embed.Deliveries())
}

func TestEmbed_RepeatsDataOnEachReady(t *testing.T) {
	data := map[string]any{"message": "Hello"}
	f := mount(t, nil, data, nil)

	f.send(t, handshake.Ready{})
	f.send(t, handshake.Ready{})

	require.Equal(t, handshake.RenderData{Data: data}, f.receive(t))
	require.Equal(t, handshake.RenderData{Data: data}, f.receive(t))
	require.Equal(t, 2, f.embed.Deliveries())
}

func TestEmbed_NoDataWaits(t *testing.T) {
	f := mount(t, nil, nil, nil)

	f.send(t, handshake.Ready{})
	f.requireSilent(t)
	require.Equal(t, StateAwaitingData, f.embed.State())

	require.NoError(t, f.embed.Push(context.Background(), map[string]any{"v": "late"}))
	require.Equal(t, handshake.RenderData{Data: map[string]any{"v": "late"}}, f.receive(t))
	require.Equal(t, StateDelivered, f.embed.State())
}

func TestEmbed_QueuesEarlyPush(t *testing.T) {
	f := mount(t, nil, map[string]any{"v": "initial"}, nil)

	require.NoError(t, f.embed.Push(context.Background(), map[string]any{"v": "early"}))
	require.NoError(t, f.embed.Push(context.Background(), map[string]any{"v": "earlier-replaced"}))
	f.requireSilent(t)

	f.send(t, handshake.Ready{})
	require.Equal(t, handshake.RenderData{Data: map[string]any{"v": "earlier-replaced"}}, f.receive(t))
	f.requireSilent(t)
}

func TestEmbed_IgnoresUnrelatedAndDisallowed(t *testing.T) {
	f := mount(t, &config.Options{AllowedOrigins: []string{"https://*.example.com"}}, map[string]any{"v": 1}, nil)

	f.embed.Handle(context.Background(), channel.Frame{Origin: embedOrigin, Data: []byte(`{"type":"some-other-message"}`)})
	f.embed.Handle(context.Background(), channel.Frame{Origin: embedOrigin, Data: []byte(`{"type":"tool","payload":{}}`)})

	raw, err := handshake.Marshal(handshake.Ready{})
	require.NoError(t, err)

	f.embed.Handle(context.Background(), channel.Frame{Origin: "https://evil.test", Data: raw})

	f.requireSilent(t)
	require.Equal(t, StateAwaitingReady, f.embed.State())
}

func TestEmbed_ActionForwarding(t *testing.T) {
	var got []handshake.Action

	handler := ActionHandlerFunc(func(_ context.Context, embedID string, a handshake.Action) error {
		require.NotEmpty(t, embedID)
		got = append(got, a)

		if intent, ok := a.(handshake.IntentAction); ok && intent.Intent == "fail" {
			return errors.New("unsupported intent")
		}

		return nil
	})

	f := mount(t, nil, nil, handler)

	tool := handshake.ToolAction{MessageID: "m1", ToolName: "list_databases", Params: map[string]any{"limit": float64(2)}}
	f.send(t, tool)
	require.Equal(t, handshake.Response{MessageID: "m1", Status: handshake.StatusHandled}, f.receive(t))

	f.send(t, handshake.IntentAction{MessageID: "m2", Intent: "fail"})
	require.Equal(t, handshake.Response{MessageID: "m2", Error: "unsupported intent"}, f.receive(t))

	require.Equal(t, []handshake.Action{tool, handshake.IntentAction{MessageID: "m2", Intent: "fail"}}, got)
}

func TestEmbed_ActionWithoutHandlerIsAcknowledged(t *testing.T) {
	f := mount(t, nil, nil, nil)

	f.send(t, handshake.NotifyAction{MessageID: "n1", Message: "hi", Level: handshake.LevelInfo})
	require.Equal(t, handshake.Response{MessageID: "n1", Status: handshake.StatusHandled}, f.receive(t))
}

func TestEmbed_ActionRateLimit(t *testing.T) {
	calls := 0
	handler := ActionHandlerFunc(func(context.Context, string, handshake.Action) error {
		calls++

		return nil
	})

	f := mount(t, &config.Options{ActionRate: 0.001, ActionBurst: 1}, nil, handler)

	f.send(t, handshake.IntentAction{MessageID: "a", Intent: "refresh"})
	require.Equal(t, handshake.Response{MessageID: "a", Status: handshake.StatusHandled}, f.receive(t))

	f.send(t, handshake.IntentAction{MessageID: "b", Intent: "refresh"})
	require.Equal(t,
		handshake.Response{MessageID: "b", Error: sdkerrors.ErrActionRateLimited.Error()},
		f.receive(t),
	)
	require.Equal(t, 1, calls)
}

func TestEmbed_RunAndUnmount(t *testing.T) {
	data := map[string]any{"message": "Hello World"}
	f := mount(t, &config.Options{ReadyTimeout: 10 * time.Millisecond}, data, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)

	go func() { done <- f.embed.Run(ctx) }()

	raw, err := handshake.Marshal(handshake.Ready{})
	require.NoError(t, err)
	require.NoError(t, f.surface.Send(ctx, raw))
	require.Equal(t, handshake.RenderData{Data: data}, f.receive(t))

	f.embed.Unmount()
	require.NoError(t, <-done)
	require.Equal(t, StateClosed, f.embed.State())

	select {
	case <-f.embed.Done():
	default:
		t.Fatal("done channel not closed")
	}

	require.ErrorIs(t, f.embed.Push(ctx, data), sdkerrors.ErrEmbedClosed)
}

func TestEmbed_RunStopsOnContextCancel(t *testing.T) {
	f := mount(t, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- f.embed.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("run did not stop")
	}

	require.Equal(t, StateClosed, f.embed.State())
}

func TestEmbedState_String(t *testing.T) {
	require.Equal(t, "awaiting-ready", StateAwaitingReady.String())
	require.Equal(t, "awaiting-data", StateAwaitingData.String())
	require.Equal(t, "delivered", StateDelivered.String())
	require.Equal(t, "closed", StateClosed.String())
}
