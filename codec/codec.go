// Package codec defines the serialization used for persisted cache
// snapshots. A Codec must round-trip arbitrary Go values (snapshot
// payloads are heterogeneous), so implementations follow the usual
// marshal/unmarshal-into shape rather than a typed encoder.
package codec

// Codec encodes/decodes snapshot structures to []byte for storage.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte, into any) error
}
