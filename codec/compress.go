package codec

import (
	"github.com/klauspost/compress/s2"
)

// Compressed wraps another codec with s2 block compression. Encode
// compresses the inner codec's output; Decode decompresses before handing
// the bytes to the inner codec. Inner must be set.
//
// s2 trades a little ratio for very fast round trips, which suits the
// fire-and-forget snapshot flushes this package performs.
type Compressed struct {
	Inner Codec
}

var _ Codec = Compressed{}

func (c Compressed) Encode(v any) ([]byte, error) {
	b, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	return s2.Encode(nil, b), nil
}

func (c Compressed) Decode(b []byte, into any) error {
	raw, err := s2.Decode(nil, b)
	if err != nil {
		return err
	}
	return c.Inner.Decode(raw, into)
}
