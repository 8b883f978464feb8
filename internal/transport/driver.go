package transport

import (
	"context"
	"errors"
)

var (
	ErrClosed    = errors.New("transport: driver closed")
	ErrDuplicate = errors.New("transport: duplicate datagram")
	ErrStale     = errors.New("transport: stale datagram")
)

// RadioDriver moves exactly framed datagrams over the air. Tx must not
// retain data after it returns; Rx returns one received frame per call.
type RadioDriver interface {
	Tx(ctx context.Context, data []byte) error
	Rx(ctx context.Context) ([]byte, error)
}
