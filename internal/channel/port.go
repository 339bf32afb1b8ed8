package channel

import (
	"context"
	"sync"

	"github.com/wagiedev/mcpui-go/internal/errors"
)

// Frame is one message received on a Port.
type Frame struct {
	// Origin identifies the sender, e.g. "https://app.example.com".
	Origin string
	Data   []byte
}

// Port is one end of an embedding channel.
type Port interface {
	// Send delivers data to the other end.
	Send(ctx context.Context, data []byte) error
	// Receive blocks until a frame arrives, the context ends, or the port
	// closes, in which case it returns ErrChannelClosed.
	Receive(ctx context.Context) (Frame, error)
	// Close closes both ends. Undelivered frames are dropped.
	Close() error
}

const pipeBuffer = 16

// Compile-time verification that pipe ends implement Port.
var _ Port = (*pipeEnd)(nil)

type pipeEnd struct {
	origin string
	in     <-chan Frame
	out    chan<- Frame

	done      chan struct{}
	closeOnce *sync.Once
}

// Pipe returns two connected in-memory ports. Frames sent on host arrive on
// embed stamped with hostOrigin, and the reverse with embedOrigin.
func Pipe(hostOrigin, embedOrigin string) (host, embed Port) {
	toEmbed := make(chan Frame, pipeBuffer)
	toHost := make(chan Frame, pipeBuffer)
	done := make(chan struct{})
	once := &sync.Once{}

	host = &pipeEnd{origin: hostOrigin, in: toHost, out: toEmbed, done: done, closeOnce: once}
	embed = &pipeEnd{origin: embedOrigin, in: toEmbed, out: toHost, done: done, closeOnce: once}

	return host, embed
}

func (p *pipeEnd) Send(ctx context.Context, data []byte) error {
	select {
	case <-p.done:
		return errors.ErrChannelClosed
	default:
	}

	select {
	case p.out <- Frame{Origin: p.origin, Data: data}:
		return nil
	case <-p.done:
		return errors.ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeEnd) Receive(ctx context.Context) (Frame, error) {
	select {
	case f := <-p.in:
		return f, nil
	case <-p.done:
		return Frame{}, errors.ErrChannelClosed
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

func (p *pipeEnd) Close() error {
	p.closeOnce.Do(func() { close(p.done) })

	return nil
}
