// Package keygen derives deterministic string cache keys from arbitrary
// content. Identical inputs always produce identical keys; map key order
// inside nested structures does not affect the result (hashing runs over a
// canonical serialization, see canonical.go).
//
// Input that cannot be serialized at all (channels, cycles, ...) degrades
// to a unique throwaway key instead of an error: the caller's Set still
// succeeds, the entry just will never be looked up again. A cache miss by
// design, not a crash.
package keygen

import (
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

const (
	delimiter      = ":"
	fallbackPrefix = "nohash-"
)

// Hash returns a short stable hash of v: xxhash64 over the canonical JSON
// form, hex-encoded. Falls back to a unique non-deterministic key when v
// cannot be canonically serialized.
func Hash(v any) string {
	b, err := canonicalJSON(v)
	if err != nil {
		return fallbackPrefix + uuid.NewString()
	}
	return strconv.FormatUint(xxhash.Sum64(b), 16)
}

// ContentOption customizes ContentKey.
type ContentOption func(*contentConfig)

type contentConfig struct {
	window time.Duration
	theme  string
	suffix string
	now    func() time.Time
}

// WithWindow appends a time bucket: the current time rounded down to the
// given window. Keys change once per window, bounding content validity
// (e.g. 5 minutes) without explicit invalidation.
func WithWindow(w time.Duration) ContentOption {
	return func(c *contentConfig) { c.window = w }
}

// WithTheme appends a theme tag so the same content renders to distinct
// keys per theme.
func WithTheme(theme string) ContentOption {
	return func(c *contentConfig) { c.theme = theme }
}

// WithSuffix appends a caller-supplied suffix verbatim.
func WithSuffix(suffix string) ContentOption {
	return func(c *contentConfig) { c.suffix = suffix }
}

// withClock fixes the time source; tests only.
func withClock(now func() time.Time) ContentOption {
	return func(c *contentConfig) { c.now = now }
}

// ContentKey derives a key for rendered content: the content hash followed
// by optional time-bucket, theme and suffix parts.
func ContentKey(content any, opts ...ContentOption) string {
	c := contentConfig{now: time.Now}
	for _, o := range opts {
		o(&c)
	}

	parts := []string{Hash(content)}
	if c.window > 0 {
		bucket := c.now().Truncate(c.window).Unix()
		parts = append(parts, strconv.FormatInt(bucket, 10))
	}
	if c.theme != "" {
		parts = append(parts, c.theme)
	}
	if c.suffix != "" {
		parts = append(parts, c.suffix)
	}
	return strings.Join(parts, delimiter)
}

// BlockKey derives a key for a block's rendered output:
// "block:<type>:<hash(data)>" plus ":<hash(context)>" when a render
// context is given.
func BlockKey(blockType string, blockData any, context ...any) string {
	key := "block" + delimiter + blockType + delimiter + Hash(blockData)
	if len(context) > 0 && context[0] != nil {
		key += delimiter + Hash(context[0])
	}
	return key
}

// ConverterKey derives a key for a converter result:
// "conv:<name>:<hash(input)>" plus ":<hash(options)>" when converter
// options are given.
func ConverterKey(name string, input any, options ...any) string {
	key := "conv" + delimiter + name + delimiter + Hash(input)
	if len(options) > 0 && options[0] != nil {
		key += delimiter + Hash(options[0])
	}
	return key
}
