// Package codec converts cache values to and from bytes for the store
// boundary. A Codec MUST round-trip: Decode(Encode(v)) yields a value
// equivalent to v. Decode errors are treated by the cache as corruption,
// not as data.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
