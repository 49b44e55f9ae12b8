package codec

import "fmt"

// Limit wraps another codec and refuses to decode payloads larger than
// MaxDecode bytes, without invoking Inner. Encode passes through unchanged.
// MaxDecode <= 0 disables the check.
//
// Use it in front of shared stores where another writer (or corruption)
// could hand back an oversized payload.
type Limit[V any] struct {
	Inner     Codec[V] // must be set
	MaxDecode int
}

func (c Limit[V]) Encode(v V) ([]byte, error) { return c.Inner.Encode(v) }
func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("payload too large: %d > %d", len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
