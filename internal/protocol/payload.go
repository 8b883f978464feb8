package protocol

// Payload is a bounded payload buffer. Its capacity is fixed at
// MaxPayloadSize and its declared length can never exceed it; bytes past the
// declared length are always zero.
type Payload struct {
	buf [MaxPayloadSize]byte
	n   uint8
}

// NewPayload copies p into a Payload.
func NewPayload(p []byte) (Payload, error) {
	var pl Payload
	if err := pl.Set(p); err != nil {
		return Payload{}, err
	}
	return pl, nil
}

// Set replaces the contents with a copy of p. On failure the payload is left
// unchanged.
func (p *Payload) Set(b []byte) error {
	if len(b) > MaxPayloadSize {
		return newError(KindNoMem, ErrPayloadTooLarge)
	}
	n := copy(p.buf[:], b)
	clear(p.buf[n:])
	p.n = uint8(n)
	return nil
}

func (p *Payload) Len() int { return int(p.n) }

// Bytes returns the declared bytes. The slice aliases the payload.
func (p *Payload) Bytes() []byte { return p.buf[:p.n] }

func (p *Payload) Reset() {
	clear(p.buf[:])
	p.n = 0
}
