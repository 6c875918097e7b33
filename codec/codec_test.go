package codec

import (
	"strings"
	"testing"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func roundTrip(t *testing.T, cd Codec) {
	t.Helper()
	in := payload{Name: "hero-block", Count: 3}

	b, err := cd.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out payload
	if err := cd.Decode(b, &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip: got %+v want %+v", out, in)
	}
}

func TestCodecsRoundTrip(t *testing.T) {
	for name, cd := range map[string]Codec{
		"json":            JSON{},
		"msgpack":         Msgpack{},
		"cbor":            MustCBOR(false),
		"cbor-det":        MustCBOR(true),
		"compressed-json": Compressed{Inner: JSON{}},
	} {
		t.Run(name, func(t *testing.T) { roundTrip(t, cd) })
	}
}

func TestCompressedShrinksRepetitiveInput(t *testing.T) {
	in := strings.Repeat("<li>item</li>", 500)

	plain, err := JSON{}.Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	packed, err := (Compressed{Inner: JSON{}}).Encode(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(packed) >= len(plain) {
		t.Fatalf("compression did not help: %d >= %d", len(packed), len(plain))
	}
}

func TestLimitRejectsOversizedPayload(t *testing.T) {
	cd := Limit{Inner: JSON{}, MaxDecode: 8}

	b, err := cd.Encode(payload{Name: "long-enough-to-exceed"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out payload
	if err := cd.Decode(b, &out); err == nil {
		t.Fatal("expected decode rejection above MaxDecode")
	}

	// disabled when MaxDecode <= 0
	cd.MaxDecode = 0
	if err := cd.Decode(b, &out); err != nil {
		t.Fatalf("limit disabled should pass through: %v", err)
	}
}
