package protocol

import "fmt"

// DatagramType is the frame-type discriminator carried in the first byte of
// every datagram.
type DatagramType uint8

const (
	TypeMonolithic DatagramType = 0
	TypeFrameStart DatagramType = 1
	TypeFrameData  DatagramType = 2
	TypeAck        DatagramType = 3
)

// Known reports whether t is one of the discriminators defined by the
// protocol, including those this package does not decode.
func (t DatagramType) Known() bool {
	return t <= TypeAck
}

func (t DatagramType) String() string {
	switch t {
	case TypeMonolithic:
		return "monolithic"
	case TypeFrameStart:
		return "frame_start"
	case TypeFrameData:
		return "frame_data"
	case TypeAck:
		return "ack"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Wire layout, version 1. Integers are little-endian.
//
//	type(1) | oui(4) | did(4) | fp(4) | seq(4) | pay_len(1) | flags(1) | payload(0-128)
const (
	MaxPayloadSize = 128
	HeaderSize     = 1 + 4 + 4 + 4 + 4 + 1 + 1
	MaxFrameSize   = HeaderSize + MaxPayloadSize
)
