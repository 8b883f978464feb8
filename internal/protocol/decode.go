package protocol

import "github.com/danmuck/longfi/internal/protocol/cursor"

// PeekType returns the frame-type discriminator of src without validating
// the rest of the datagram.
func PeekType(src []byte) (DatagramType, error) {
	if len(src) == 0 {
		return 0, newError(KindException, ErrTruncated)
	}
	return DatagramType(src[0]), nil
}

// Decode parses a monolithic datagram from src and copies its payload into
// out, returning the payload length and the datagram.
//
// The frame carries no overall length, so src must hold exactly one datagram
// with no leading or trailing bytes. The contents of out are unspecified when
// Decode fails.
func Decode(src []byte, out []byte) (int, Datagram, error) {
	c := cursor.New(src)

	tag, err := c.UnpackU8()
	if err != nil {
		return 0, Datagram{}, newError(KindException, ErrTruncated)
	}
	if t := DatagramType(tag); t != TypeMonolithic {
		if t.Known() {
			return 0, Datagram{}, newError(KindException, ErrTypeMismatch)
		}
		return 0, Datagram{}, &Error{Kind: KindInvalidType}
	}

	dg, payloadLen, err := readHeader(c)
	if err != nil {
		return 0, Datagram{}, err
	}

	switch rem := c.Remaining(); {
	case rem < payloadLen:
		return 0, Datagram{}, newError(KindException, ErrTruncated)
	case rem > payloadLen:
		return 0, Datagram{}, newError(KindException, ErrTrailingBytes)
	}
	if payloadLen > len(out) {
		return 0, Datagram{}, newError(KindNoMem, ErrShortOutput)
	}

	payload, err := c.UnpackBytes(payloadLen)
	if err != nil {
		return 0, Datagram{}, newError(KindException, err)
	}
	copy(out, payload)
	return payloadLen, dg, nil
}

// readHeader reads the fields following the discriminator.
func readHeader(c *cursor.Cursor) (Datagram, int, error) {
	var dg Datagram
	for _, dst := range [...]*uint32{&dg.OUI, &dg.DID, &dg.FP, &dg.Seq} {
		v, err := c.UnpackLE32()
		if err != nil {
			return Datagram{}, 0, newError(KindException, ErrTruncated)
		}
		*dst = v
	}

	payloadLen, err := c.UnpackU8()
	if err != nil {
		return Datagram{}, 0, newError(KindException, ErrTruncated)
	}
	if payloadLen > MaxPayloadSize {
		return Datagram{}, 0, newError(KindException, ErrPayloadTooLarge)
	}

	rawFlags, err := c.UnpackU8()
	if err != nil {
		return Datagram{}, 0, newError(KindException, ErrTruncated)
	}
	flags, err := UnpackFlags(rawFlags)
	if err != nil {
		return Datagram{}, 0, err
	}
	dg.Flags = flags
	return dg, int(payloadLen), nil
}
