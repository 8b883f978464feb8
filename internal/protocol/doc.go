// Package protocol owns the LongFi monolithic datagram wire contract.
//
// Ownership boundary:
// - frame-type discriminator and header layout
// - flag bit packing
// - bounded payload staging
// - the shared error taxonomy
//
// The codec is stateless; Encode and Decode may run concurrently on
// disjoint buffers. Fingerprints are opaque values supplied by the session
// layer and are never computed here.
package protocol
