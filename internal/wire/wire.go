// Package wire frames persisted snapshots with a magic/version envelope so
// corruption and format drift are detected before the codec ever runs.
package wire

import (
	"bytes"
	"errors"
)

const Version byte = 1

var (
	ErrCorrupt = errors.New("contentcache: corrupt envelope")
	magic4     = [...]byte{'C', 'C', 'S', 'N'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode frames a codec payload: magic(4) | ver(1) | payload.
func Encode(payload []byte) []byte {
	out := make([]byte, 0, 4+1+len(payload))
	out = append(out, magic4[:]...)
	out = append(out, Version)
	out = append(out, payload...)
	return out
}

// Decode validates the envelope and returns the codec payload. Unknown
// versions are corrupt: old processes must not misread newer snapshots.
func Decode(b []byte) ([]byte, error) {
	const hdr = 4 + 1
	if len(b) < hdr || !hasMagic(b) || b[4] != Version {
		return nil, ErrCorrupt
	}
	return b[hdr:], nil
}
