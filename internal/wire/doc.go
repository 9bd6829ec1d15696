// Package wire converts boxed property values to and from the replication
// wire format.
//
// Records and batches are serialized as canonical JSON (RFC 8785 key order,
// NFC keys, no HTML escaping) so identical change sets produce identical
// bytes. Text values are carried exactly as logged. Floating point payloads travel as shortest round-trip decimal
// strings rather than JSON numbers, which keeps float32 values exact.
// Batches are zstd-compressed before they are persisted.
package wire
