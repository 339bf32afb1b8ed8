package channel

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/wagiedev/mcpui-go/internal/errors"
)

// wsEnvelope is the JSON frame exchanged with a browser bridge.
type wsEnvelope struct {
	Origin string          `json:"origin,omitempty"`
	Data   json.RawMessage `json:"data"`
}

// Compile-time verification that WebSocket implements Port.
var _ Port = (*WebSocket)(nil)

// WebSocket is a Port over a WebSocket connection.
//
// Each frame is a JSON envelope {"origin": ..., "data": <message>}. The
// browser side of a bridge fills origin from the postMessage event it relays;
// frames without an origin fall back to the peer's HTTP Origin header.
type WebSocket struct {
	conn       net.Conn
	server     bool
	origin     string
	peerOrigin string

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// NewWebSocket wraps an established WebSocket connection. server selects the
// framing side. origin is stamped onto outgoing frames.
func NewWebSocket(conn net.Conn, server bool, origin string) *WebSocket {
	return &WebSocket{conn: conn, server: server, origin: origin}
}

// Upgrade upgrades an HTTP request to a server-side WebSocket port.
func Upgrade(w http.ResponseWriter, r *http.Request, origin string) (*WebSocket, error) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		return nil, fmt.Errorf("upgrade websocket: %w", err)
	}

	p := NewWebSocket(conn, true, origin)
	p.peerOrigin = r.Header.Get("Origin")

	return p, nil
}

// Dial connects a client-side WebSocket port to url.
func Dial(ctx context.Context, url, origin string) (*WebSocket, error) {
	conn, _, _, err := ws.Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial websocket %s: %w", url, err)
	}

	return NewWebSocket(conn, false, origin), nil
}

func (w *WebSocket) Send(ctx context.Context, data []byte) error {
	raw, err := json.Marshal(wsEnvelope{Origin: w.origin, Data: data})
	if err != nil {
		return fmt.Errorf("encode websocket frame: %w", err)
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	stop := w.deadlineOnCancel(ctx, w.conn.SetWriteDeadline)
	defer stop()

	if w.server {
		err = wsutil.WriteServerMessage(w.conn, ws.OpText, raw)
	} else {
		err = wsutil.WriteClientMessage(w.conn, ws.OpText, raw)
	}

	return w.mapErr(ctx, err)
}

func (w *WebSocket) Receive(ctx context.Context) (Frame, error) {
	stop := w.deadlineOnCancel(ctx, w.conn.SetReadDeadline)
	defer stop()

	for {
		var (
			msg []byte
			op  ws.OpCode
			err error
		)

		if w.server {
			msg, op, err = wsutil.ReadClientData(w.conn)
		} else {
			msg, op, err = wsutil.ReadServerData(w.conn)
		}

		if err != nil {
			return Frame{}, w.mapErr(ctx, err)
		}

		if op != ws.OpText && op != ws.OpBinary {
			continue
		}

		// Frames that are not envelopes are foreign traffic on a shared socket.
		var env wsEnvelope
		if err := json.Unmarshal(msg, &env); err != nil {
			continue
		}

		origin := env.Origin
		if origin == "" {
			origin = w.peerOrigin
		}

		return Frame{Origin: origin, Data: env.Data}, nil
	}
}

func (w *WebSocket) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.conn.Close()
	})

	return w.closeErr
}

// deadlineOnCancel expires the connection deadline when ctx ends so a blocked
// read or write returns.
func (w *WebSocket) deadlineOnCancel(ctx context.Context, set func(time.Time) error) func() {
	if deadline, ok := ctx.Deadline(); ok {
		_ = set(deadline)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = set(time.Now())
	})

	return func() {
		stop()
		_ = set(time.Time{})
	}
}

func (w *WebSocket) mapErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var closed wsutil.ClosedError
	if stderrors.As(err, &closed) || stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) ||
		stderrors.Is(err, net.ErrClosed) || stderrors.Is(err, io.ErrClosedPipe) {
		return errors.ErrChannelClosed
	}

	return err
}
