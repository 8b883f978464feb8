// Package session owns the checks that sit between the datagram codec and
// the application.
//
// Ownership boundary:
// - identity (OUI/DID) matching
// - fingerprint supply and comparison; derivation is external
// - sequence numbering and replay tracking
//
// Mismatches are reported with the protocol error taxonomy so callers see a
// single error type for wire and session failures.
package session
