package protocol

import "fmt"

// Datagram is the logical monolithic frame. The payload travels alongside
// it rather than inside it.
type Datagram struct {
	Flags Flags
	// OUI is the organization identifier.
	OUI uint32
	// DID is the device identifier within the organization.
	DID uint32
	// FP is the fingerprint. It is derived from the other fields and a
	// session key by the session layer and is opaque here.
	FP uint32
	// Seq is the sender's sequence number.
	Seq uint32
}

func (d Datagram) String() string {
	return fmt.Sprintf("oui=%d did=%d fp=%#08x seq=%d flags=%#02x", d.OUI, d.DID, d.FP, d.Seq, d.Flags.Pack())
}

// EncodedLen is the number of bytes Encode writes for a payload of n bytes.
func EncodedLen(n int) int {
	return HeaderSize + n
}

// Frame pairs a datagram with its payload.
type Frame struct {
	Datagram Datagram
	Payload  Payload
}

// NewFrame builds a Frame, copying payload.
func NewFrame(dg Datagram, payload []byte) (Frame, error) {
	pl, err := NewPayload(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Datagram: dg, Payload: pl}, nil
}

// Encode writes f into dst and returns the number of bytes written.
func (f Frame) Encode(dst []byte) (int, error) {
	return Encode(f.Datagram, f.Payload.Bytes(), dst)
}

// MarshalBinary implements encoding.BinaryMarshaler. The result is exactly
// EncodedLen(f.Payload.Len()) bytes.
func (f Frame) MarshalBinary() ([]byte, error) {
	buf := make([]byte, EncodedLen(f.Payload.Len()))
	n, err := f.Encode(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. data must hold
// exactly one frame; f is left unchanged on error.
func (f *Frame) UnmarshalBinary(data []byte) error {
	out, err := DecodeFrame(data)
	if err != nil {
		return err
	}
	*f = out
	return nil
}

// DecodeFrame decodes exactly one datagram from src.
func DecodeFrame(src []byte) (Frame, error) {
	var f Frame
	n, dg, err := Decode(src, f.Payload.buf[:])
	if err != nil {
		return Frame{}, err
	}
	f.Datagram = dg
	f.Payload.n = uint8(n)
	return f, nil
}
