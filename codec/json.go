package codec

import "encoding/json"

// JSON serializes values with encoding/json. The zero value is ready to use.
// Slowest of the bundled codecs but the easiest to inspect in a store.
type JSON[V any] struct{}

var _ Codec[int] = JSON[int]{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
