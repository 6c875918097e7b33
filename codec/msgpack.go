package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes snapshots using vmihailenco/msgpack/v5. The zero
// value is ready to use.
//
// Msgpack is compact and fast; be mindful of struct tag differences vs
// JSON. Use `msgpack:"fieldName"` tags if you need explicit control.
type Msgpack struct{}

func (Msgpack) Encode(v any) ([]byte, error)    { return msgpack.Marshal(v) }
func (Msgpack) Decode(b []byte, into any) error { return msgpack.Unmarshal(b, into) }
