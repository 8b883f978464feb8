package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/longfi/internal/observability"
	"github.com/danmuck/longfi/internal/protocol"
	"github.com/danmuck/longfi/internal/protocol/session"
)

// Recorder receives every raw frame before it is decoded.
type Recorder interface {
	Record(at time.Time, raw []byte) error
}

// Handler is invoked for each accepted frame.
type Handler func(protocol.Frame)

// Receiver decodes and validates frames delivered by a driver.
type Receiver struct {
	driver   RadioDriver
	filter   session.Filter
	tracker  *session.Tracker
	recorder Recorder
	cfg      Config
	logger   zerolog.Logger
	now      func() time.Time
}

type ReceiverOption func(*Receiver)

func WithFilter(f session.Filter) ReceiverOption {
	return func(r *Receiver) { r.filter = f }
}

func WithRecorder(rec Recorder) ReceiverOption {
	return func(r *Receiver) { r.recorder = rec }
}

func WithReceiverConfig(cfg Config) ReceiverOption {
	return func(r *Receiver) { r.cfg = cfg }
}

func WithReceiverLogger(logger zerolog.Logger) ReceiverOption {
	return func(r *Receiver) { r.logger = logger }
}

func NewReceiver(driver RadioDriver, identity session.Identity, opts ...ReceiverOption) *Receiver {
	r := &Receiver{
		driver: driver,
		filter: session.Filter{Identity: identity},
		cfg:    DefaultConfig(),
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tracker = session.NewTracker(r.cfg.TrackerCapacity)
	return r
}

// Tracker exposes per-device sequence state.
func (r *Receiver) Tracker() *session.Tracker { return r.tracker }

// Receive reads one frame from the driver and returns it if it decodes and
// passes the session checks. Rejected frames are returned as errors; driver
// and context errors are returned unchanged.
func (r *Receiver) Receive(ctx context.Context) (protocol.Frame, error) {
	raw, err := r.driver.Rx(ctx)
	if err != nil {
		return protocol.Frame{}, err
	}
	at := r.now()
	if r.recorder != nil {
		if err := r.recorder.Record(at, raw); err != nil {
			r.logger.Warn().Err(err).Msg("capture record failed")
		}
	}

	frame, err := protocol.DecodeFrame(raw)
	observability.RecordCodec(observability.OpDecode, len(raw), err)
	if err != nil {
		return protocol.Frame{}, r.drop(protocol.KindOf(err).String(), fmt.Errorf("transport: decode: %w", err))
	}

	if err := r.filter.Check(frame.Datagram, frame.Payload.Bytes()); err != nil {
		return protocol.Frame{}, r.drop(protocol.KindOf(err).String(), fmt.Errorf("transport: %w", err))
	}

	if r.cfg.DropReplays {
		switch r.tracker.Observe(frame.Datagram, at) {
		case session.VerdictDuplicate:
			return protocol.Frame{}, r.drop("duplicate", fmt.Errorf("%w: seq=%d", ErrDuplicate, frame.Datagram.Seq))
		case session.VerdictStale:
			return protocol.Frame{}, r.drop("stale", fmt.Errorf("%w: seq=%d", ErrStale, frame.Datagram.Seq))
		}
	}

	observability.RecordFrame(r.cfg.Node, observability.DirectionRx, "ok", frame.Payload.Len())
	return frame, nil
}

func (r *Receiver) drop(outcome string, err error) error {
	observability.RecordFrame(r.cfg.Node, observability.DirectionRx, outcome, 0)
	return err
}

// Listen delivers accepted frames to h until ctx is done or the driver is
// closed. Rejected frames are logged and skipped.
func (r *Receiver) Listen(ctx context.Context, h Handler) error {
	for {
		frame, err := r.Receive(ctx)
		switch {
		case err == nil:
			h(frame)
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ErrClosed):
			return err
		case isDrop(err):
			r.logger.Debug().Err(err).Msg("frame dropped")
		default:
			return err
		}
	}
}

func isDrop(err error) bool {
	var pe *protocol.Error
	return errors.As(err, &pe) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrStale)
}
