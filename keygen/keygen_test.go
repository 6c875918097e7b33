package keygen

import (
	"strings"
	"testing"
	"time"
)

func TestHashDeterministic(t *testing.T) {
	type page struct {
		Title string
		Body  string
	}
	a := Hash(page{Title: "home", Body: "<p>hi</p>"})
	b := Hash(page{Title: "home", Body: "<p>hi</p>"})
	if a != b {
		t.Fatalf("identical input hashed differently: %q vs %q", a, b)
	}
	if c := Hash(page{Title: "home", Body: "<p>bye</p>"}); c == a {
		t.Fatal("different input should hash differently")
	}
}

func TestHashIgnoresMapKeyOrder(t *testing.T) {
	// maps with the same contents must hash identically regardless of
	// construction order, including nested ones
	m1 := map[string]any{
		"b":      2,
		"a":      1,
		"nested": map[string]any{"y": "yy", "x": "xx"},
	}
	m2 := map[string]any{
		"nested": map[string]any{"x": "xx", "y": "yy"},
		"a":      1,
		"b":      2,
	}
	if Hash(m1) != Hash(m2) {
		t.Fatal("map key order leaked into the hash")
	}
}

func TestHashEquatesStructAndEquivalentMap(t *testing.T) {
	type opts struct {
		Lang  string `json:"lang"`
		Width int    `json:"width"`
	}
	asStruct := Hash(opts{Lang: "en", Width: 80})
	asMap := Hash(map[string]any{"width": 80, "lang": "en"})
	if asStruct != asMap {
		t.Fatal("canonical form should not depend on the Go type")
	}
}

func TestHashUnserializableFallsBack(t *testing.T) {
	ch := make(chan int) // json cannot serialize channels

	k1 := Hash(ch)
	k2 := Hash(ch)
	if !strings.HasPrefix(k1, fallbackPrefix) {
		t.Fatalf("expected fallback key, got %q", k1)
	}
	// fallback keys must never collide: the entry is a designed cache miss
	if k1 == k2 {
		t.Fatal("fallback keys must be unique per call")
	}
}

func TestContentKeyParts(t *testing.T) {
	content := "<html>page</html>"
	base := ContentKey(content)
	if strings.Contains(base, delimiter) {
		t.Fatalf("bare content key should be a single part: %q", base)
	}

	themed := ContentKey(content, WithTheme("dark"), WithSuffix("v2"))
	want := base + ":dark:v2"
	if themed != want {
		t.Fatalf("key = %q, want %q", themed, want)
	}
}

func TestContentKeyTimeBucket(t *testing.T) {
	content := "same content"
	at := func(ts time.Time) ContentOption {
		return withClock(func() time.Time { return ts })
	}
	base := time.Date(2024, 6, 1, 12, 2, 30, 0, time.UTC)

	k1 := ContentKey(content, WithWindow(5*time.Minute), at(base))
	k2 := ContentKey(content, WithWindow(5*time.Minute), at(base.Add(time.Minute)))
	k3 := ContentKey(content, WithWindow(5*time.Minute), at(base.Add(4*time.Minute)))

	if k1 != k2 {
		t.Fatalf("same 5m bucket should share a key: %q vs %q", k1, k2)
	}
	if k1 == k3 {
		t.Fatal("crossing the bucket boundary should change the key")
	}
}

func TestBlockKeyFormat(t *testing.T) {
	data := map[string]any{"text": "hello"}

	key := BlockKey("hero", data)
	if !strings.HasPrefix(key, "block:hero:") {
		t.Fatalf("key = %q", key)
	}
	if parts := strings.Split(key, ":"); len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %v", parts)
	}

	withCtx := BlockKey("hero", data, map[string]any{"page": "home"})
	if !strings.HasPrefix(withCtx, key+":") {
		t.Fatalf("context should append a part: %q", withCtx)
	}
	if withCtx == BlockKey("hero", data, map[string]any{"page": "about"}) {
		t.Fatal("different context should change the key")
	}
}

func TestConverterKeyFormat(t *testing.T) {
	key := ConverterKey("markdown", "# Title")
	if !strings.HasPrefix(key, "conv:markdown:") {
		t.Fatalf("key = %q", key)
	}

	plain := ConverterKey("markdown", "# Title")
	if key != plain {
		t.Fatal("converter keys must be deterministic")
	}

	withOpts := ConverterKey("markdown", "# Title", map[string]any{"toc": true})
	if withOpts == key {
		t.Fatal("options should change the key")
	}
}
