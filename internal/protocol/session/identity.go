package session

import (
	"fmt"

	"github.com/danmuck/longfi/internal/protocol"
)

// Identity is the configured OUI/DID of a node.
type Identity struct {
	OUI uint32
	DID uint32
	// AnyDevice accepts every DID within OUI. Gateways set it; devices do
	// not.
	AnyDevice bool
}

// Check reports protocol.ErrAddress when dg is not addressed to id.
func (id Identity) Check(dg protocol.Datagram) error {
	if dg.OUI != id.OUI || (!id.AnyDevice && dg.DID != id.DID) {
		return &protocol.Error{
			Kind: protocol.KindAddress,
			Err:  fmt.Errorf("got oui=%d did=%d want oui=%d did=%d", dg.OUI, dg.DID, id.OUI, id.DID),
		}
	}
	return nil
}

// Stamp fills the address fields of dg from id.
func (id Identity) Stamp(dg *protocol.Datagram) {
	dg.OUI = id.OUI
	dg.DID = id.DID
}

// Fingerprinter supplies the fingerprint for a datagram and its payload.
// Implementations live in the security layer.
type Fingerprinter interface {
	Fingerprint(dg protocol.Datagram, payload []byte) uint32
}

// FingerprintFunc adapts a function to Fingerprinter.
type FingerprintFunc func(dg protocol.Datagram, payload []byte) uint32

func (f FingerprintFunc) Fingerprint(dg protocol.Datagram, payload []byte) uint32 {
	return f(dg, payload)
}

// StaticFingerprint always yields the same value.
type StaticFingerprint uint32

func (s StaticFingerprint) Fingerprint(protocol.Datagram, []byte) uint32 {
	return uint32(s)
}

// Filter validates received datagrams against a local identity and an
// expected fingerprint.
type Filter struct {
	Identity Identity
	// Fingerprinter, when set, computes the expected fingerprint. The FP
	// field of the datagram is ignored by the computation.
	Fingerprinter Fingerprinter
}

// Check returns nil if dg passes both the address and fingerprint checks.
func (f Filter) Check(dg protocol.Datagram, payload []byte) error {
	if err := f.Identity.Check(dg); err != nil {
		return err
	}
	if f.Fingerprinter == nil {
		return nil
	}
	probe := dg
	probe.FP = 0
	if want := f.Fingerprinter.Fingerprint(probe, payload); want != dg.FP {
		return &protocol.Error{
			Kind: protocol.KindFingerprint,
			Err:  fmt.Errorf("got %#08x want %#08x", dg.FP, want),
		}
	}
	return nil
}
