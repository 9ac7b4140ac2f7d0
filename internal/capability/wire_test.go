package capability

import "testing"

func TestEncodeDecodeMapRoundTrip(t *testing.T) {
	m := Map{
		"Flag":   Bool(true),
		"Name":   String("v2"),
		"Absent": Bool(false),
	}

	decoded, err := DecodeMap(EncodeMap(m))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != len(m) {
		t.Fatalf("expected %d entries, got %d", len(m), len(decoded))
	}
	for k, v := range m {
		got, ok := decoded[k]
		if !ok {
			t.Fatalf("missing key %q after round trip", k)
		}
		if got.Kind() != v.Kind() || got.String() != v.String() {
			t.Fatalf("entry %q mismatch: got %v want %v", k, got, v)
		}
	}
}

func TestDecodeMapShortHeader(t *testing.T) {
	if _, err := DecodeMap([]byte{0x00}); err == nil {
		t.Fatalf("expected an error for a truncated wire payload")
	}
}
