package codec

// Bytes is an identity codec for []byte values: the input passes through
// unchanged. Useful when values are already raw bytes and only the cache's
// framing and validation are wanted. Decoded slices alias store buffers;
// callers must not modify them.
type Bytes struct{}

var _ Codec[[]byte] = Bytes{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }
func (Bytes) Decode(b []byte) ([]byte, error) { return b, nil }

// String converts Go strings to bytes and back. No UTF-8 validation is
// performed; arbitrary byte strings round-trip.
type String struct{}

var _ Codec[string] = String{}

func (String) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (String) Decode(b []byte) (string, error) { return string(b), nil }
