package protocol

// Flag bit positions within the flags byte. The order is a fixed wire
// constant; bits 5 through 7 are reserved and must be zero.
const (
	FlagDownlink  uint8 = 1 << 0
	FlagShouldAck uint8 = 1 << 1
	FlagCtsRts    uint8 = 1 << 2
	FlagPriority  uint8 = 1 << 3
	FlagLDPC      uint8 = 1 << 4

	flagsMask = FlagDownlink | FlagShouldAck | FlagCtsRts | FlagPriority | FlagLDPC
)

// Flags are the per-datagram control bits.
type Flags struct {
	// Downlink is set when the datagram is destined for a device.
	Downlink bool
	// ShouldAck asks the receiver to acknowledge receipt.
	ShouldAck bool
	// CtsRts means ready-to-receive on uplink and more-data-follows on
	// downlink.
	CtsRts bool
	// Priority marks the datagram urgent; receivers may act on it.
	Priority bool
	// LDPC means everything past the tag is LDPC coded.
	LDPC bool
}

// Pack returns the wire byte for f.
func (f Flags) Pack() uint8 {
	var b uint8
	if f.Downlink {
		b |= FlagDownlink
	}
	if f.ShouldAck {
		b |= FlagShouldAck
	}
	if f.CtsRts {
		b |= FlagCtsRts
	}
	if f.Priority {
		b |= FlagPriority
	}
	if f.LDPC {
		b |= FlagLDPC
	}
	return b
}

// UnpackFlags decodes a wire flags byte. Any combination of the five
// defined bits is accepted; reserved bits yield ErrInvalidFlags.
func UnpackFlags(b uint8) (Flags, error) {
	if b&^flagsMask != 0 {
		return Flags{}, newError(KindInvalidFlags, ErrReservedFlags)
	}
	return Flags{
		Downlink:  b&FlagDownlink != 0,
		ShouldAck: b&FlagShouldAck != 0,
		CtsRts:    b&FlagCtsRts != 0,
		Priority:  b&FlagPriority != 0,
		LDPC:      b&FlagLDPC != 0,
	}, nil
}
