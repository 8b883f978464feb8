package transport

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/longfi/internal/observability"
	"github.com/danmuck/longfi/internal/protocol"
	"github.com/danmuck/longfi/internal/protocol/session"
)

// Sender stamps, encodes and transmits datagrams for one identity.
type Sender struct {
	driver        RadioDriver
	identity      session.Identity
	fingerprinter session.Fingerprinter
	seq           *session.Sequencer
	cfg           Config
	logger        zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

type SenderOption func(*Sender)

// WithFingerprinter sets the source of the fp field.
func WithFingerprinter(f session.Fingerprinter) SenderOption {
	return func(s *Sender) { s.fingerprinter = f }
}

// WithSequencer shares a sequence source, e.g. one restored from storage.
func WithSequencer(seq *session.Sequencer) SenderOption {
	return func(s *Sender) { s.seq = seq }
}

func WithSenderConfig(cfg Config) SenderOption {
	return func(s *Sender) { s.cfg = cfg }
}

func WithSenderLogger(logger zerolog.Logger) SenderOption {
	return func(s *Sender) { s.logger = logger }
}

func NewSender(driver RadioDriver, identity session.Identity, opts ...SenderOption) *Sender {
	s := &Sender{
		driver:   driver,
		identity: identity,
		seq:      &session.Sequencer{},
		cfg:      DefaultConfig(),
		logger:   zerolog.Nop(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send builds a datagram with the next sequence number, encodes it with
// payload and transmits it. The returned datagram is what went on air.
func (s *Sender) Send(ctx context.Context, flags protocol.Flags, payload []byte) (protocol.Datagram, error) {
	staged, err := protocol.NewPayload(payload)
	if err != nil {
		observability.RecordCodec(observability.OpEncode, 0, err)
		observability.RecordFrame(s.cfg.Node, observability.DirectionTx, protocol.KindOf(err).String(), 0)
		return protocol.Datagram{}, fmt.Errorf("transport: stage payload: %w", err)
	}

	dg := protocol.Datagram{Flags: flags, Seq: s.seq.Next()}
	s.identity.Stamp(&dg)
	if s.fingerprinter != nil {
		dg.FP = s.fingerprinter.Fingerprint(dg, staged.Bytes())
	}

	var buf [protocol.MaxFrameSize]byte
	n, err := protocol.Encode(dg, staged.Bytes(), buf[:])
	observability.RecordCodec(observability.OpEncode, n, err)
	if err != nil {
		observability.RecordFrame(s.cfg.Node, observability.DirectionTx, protocol.KindOf(err).String(), 0)
		return dg, fmt.Errorf("transport: encode seq=%d: %w", dg.Seq, err)
	}

	if err := s.transmit(ctx, buf[:n]); err != nil {
		observability.RecordFrame(s.cfg.Node, observability.DirectionTx, "driver", 0)
		s.logger.Warn().Err(err).Uint32("seq", dg.Seq).Msg("transmit failed")
		return dg, fmt.Errorf("transport: transmit seq=%d: %w", dg.Seq, err)
	}

	observability.RecordFrame(s.cfg.Node, observability.DirectionTx, "ok", staged.Len())
	s.logger.Debug().
		Uint32("oui", dg.OUI).
		Uint32("did", dg.DID).
		Uint32("seq", dg.Seq).
		Uint8("flags", dg.Flags.Pack()).
		Int("bytes", n).
		Msg("datagram sent")
	return dg, nil
}

func (s *Sender) transmit(ctx context.Context, frame []byte) error {
	attempts := s.cfg.MaxTxAttempts
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 1; ; attempt++ {
		err := s.driver.Tx(ctx, frame)
		if err == nil {
			return nil
		}
		if attempt >= attempts || ctx.Err() != nil || errors.Is(err, ErrClosed) {
			return err
		}

		delay := s.backoff(attempt, len(frame))
		s.logger.Debug().Err(err).Int("attempt", attempt).Dur("delay", delay).Msg("retrying transmit")
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *Sender) backoff(attempt, frameLen int) time.Duration {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return NextBackoffDelay(s.cfg.Backoff, attempt, frameLen, s.rng)
}
