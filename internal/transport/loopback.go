package transport

import (
	"context"
	"sync"
)

type loopLink struct {
	done chan struct{}
	once sync.Once
}

func (l *loopLink) close() {
	l.once.Do(func() { close(l.done) })
}

// Loopback is one end of an in-memory radio link.
type Loopback struct {
	tx   chan<- []byte
	rx   <-chan []byte
	link *loopLink
}

// NewLoopbackPair returns two connected drivers. Frames sent on one are
// received on the other; each direction buffers up to depth frames.
func NewLoopbackPair(depth int) (*Loopback, *Loopback) {
	ab := make(chan []byte, depth)
	ba := make(chan []byte, depth)
	link := &loopLink{done: make(chan struct{})}
	return &Loopback{tx: ab, rx: ba, link: link}, &Loopback{tx: ba, rx: ab, link: link}
}

func (l *Loopback) Tx(ctx context.Context, data []byte) error {
	frame := make([]byte, len(data))
	copy(frame, data)
	select {
	case <-l.link.done:
		return ErrClosed
	default:
	}
	select {
	case l.tx <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.link.done:
		return ErrClosed
	}
}

func (l *Loopback) Rx(ctx context.Context) ([]byte, error) {
	select {
	case frame := <-l.rx:
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.link.done:
		return nil, ErrClosed
	}
}

// Close shuts down both ends of the link.
func (l *Loopback) Close() error {
	l.link.close()
	return nil
}
