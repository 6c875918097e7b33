package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// CBOR serializes snapshots using fxamacker/cbor. The zero value is NOT
// ready to use. Construct with NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core
// Deterministic) when you need byte-for-byte stable outputs. Otherwise
// PreferredUnsortedEncOptions are used (sensible defaults). Time values
// are encoded as RFC3339Nano for stable, human-readable timestamps.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec = CBOR{}

// NewCBOR constructs a CBOR codec.
//   - Deterministic is true, uses CoreDetEncOptions (RFC 8949).
//   - Otherwise uses PreferredUnsortedEncOptions (smaller/faster defaults).
//
// Also sets time encoding to RFC3339Nano.
func NewCBOR(deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Should not use for prod just handy for package-level variables in tests/examples.
func MustCBOR(deterministic bool) CBOR {
	c, err := NewCBOR(deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR) Encode(v any) ([]byte, error)    { return c.enc.Marshal(v) }
func (c CBOR) Decode(b []byte, into any) error { return c.dec.Unmarshal(b, into) }
