//go:build qidebug

package registry

import "fmt"

// assertf panics if cond is false. Built only under -tags qidebug, for use
// in the test suite: it turns a dispatch precondition violation (e.g. a
// message handed to DispatchMessage with its recipient slot already
// populated) into a hard failure instead of the release build's logged
// false return, so a test suite built with this tag catches the bug at its
// source instead of at a fallback path several frames away.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
