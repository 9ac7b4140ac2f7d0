//go:build !qidebug

package registry

// assertf is a no-op in release builds: precondition violations degrade to
// the logged-false-return path in DispatchMessage, never a panic.
func assertf(cond bool, format string, args ...any) {}
