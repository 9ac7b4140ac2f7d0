package metaobject

import (
	"errors"
	"testing"
)

func TestSendCacheDeterministic(t *testing.T) {
	c := NewSendCache()

	a := New([]byte("schema-a"))
	b := New([]byte("schema-b"))
	aAgain := New([]byte("schema-a"))

	tok1, inserted1 := c.Set(a)
	if !inserted1 || tok1 != 1 {
		t.Fatalf("expected first insert to get token 1, got %d inserted=%v", tok1, inserted1)
	}

	tok2, inserted2 := c.Set(b)
	if !inserted2 || tok2 != 2 {
		t.Fatalf("expected second insert to get token 2, got %d inserted=%v", tok2, inserted2)
	}

	tok3, inserted3 := c.Set(aAgain)
	if inserted3 {
		t.Fatalf("expected re-insertion of equal metaobject to report inserted=false")
	}
	if tok3 != tok1 {
		t.Fatalf("expected same token for content-equal metaobject, got %d want %d", tok3, tok1)
	}
}

func TestReceiveCacheRoundTrip(t *testing.T) {
	c := NewReceiveCache()
	mo := New([]byte("schema"))

	c.Set(7, mo)
	got, err := c.Get(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(mo) {
		t.Fatalf("round trip mismatch")
	}
}

func TestReceiveCacheMiss(t *testing.T) {
	c := NewReceiveCache()
	_, err := c.Get(1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReceiveCacheOverwrites(t *testing.T) {
	c := NewReceiveCache()
	first := New([]byte("v1"))
	second := New([]byte("v2"))

	c.Set(1, first)
	c.Set(1, second)

	got, err := c.Get(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(second) {
		t.Fatalf("expected overwrite to take effect")
	}
}
