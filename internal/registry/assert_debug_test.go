//go:build qidebug

package registry

import "testing"

func TestAssertfPanicsOnFalseCondition(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected assertf(false, ...) to panic under the qidebug build tag")
		}
	}()
	assertf(false, "boom %d", 1)
}

func TestAssertfNoopsOnTrueCondition(t *testing.T) {
	assertf(true, "never reached")
}
