package keygen

import "encoding/json"

// canonicalJSON serializes v deterministically. encoding/json already
// sorts map keys, but struct field order follows declaration, so a value
// is first flattened through a generic round trip: after unmarshalling
// into any, every object is a map and the final marshal emits sorted keys
// at every nesting level. Two structurally equal inputs therefore always
// produce the same bytes, whatever their Go types were.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}
