package codec

import "encoding/json"

// JSON is the default snapshot codec. Human-readable slots, at the cost of
// size; wrap it in Compressed when slots get large.
type JSON struct{}

func (JSON) Encode(v any) ([]byte, error)    { return json.Marshal(v) }
func (JSON) Decode(b []byte, into any) error { return json.Unmarshal(b, into) }
