package protocol

import "github.com/danmuck/longfi/internal/protocol/cursor"

// Encode writes dg and payload into dst as a monolithic datagram suitable
// for over-the-air transmission and returns the number of bytes written.
//
// Nothing is written unless dst can hold the whole datagram.
func Encode(dg Datagram, payload []byte, dst []byte) (int, error) {
	var staged Payload
	if err := staged.Set(payload); err != nil {
		return 0, err
	}
	if len(dst) < EncodedLen(staged.Len()) {
		return 0, newError(KindNoMem, cursor.ErrOverflow)
	}

	c := cursor.New(dst)
	if err := writeHeader(c, dg, staged.Len()); err != nil {
		return 0, encodeFault(err)
	}
	if err := c.PackBytes(staged.Bytes()); err != nil {
		return 0, encodeFault(err)
	}
	return c.Pos(), nil
}

func writeHeader(c *cursor.Cursor, dg Datagram, payloadLen int) error {
	if err := c.PackU8(uint8(TypeMonolithic)); err != nil {
		return err
	}
	for _, v := range [...]uint32{dg.OUI, dg.DID, dg.FP, dg.Seq} {
		if err := c.PackLE32(v); err != nil {
			return err
		}
	}
	if err := c.PackU8(uint8(payloadLen)); err != nil {
		return err
	}
	return c.PackU8(dg.Flags.Pack())
}

// encodeFault reports a cursor failure that the up-front size check should
// have made impossible.
func encodeFault(err error) error {
	return newError(KindException, err)
}
