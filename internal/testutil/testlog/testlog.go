// Package testlog configures test-profile logging once per test binary.
package testlog

import (
	"testing"

	"github.com/danmuck/qimsg/internal/logging"
)

// Start configures debug-level, timestamp-free logging for the current test
// binary and logs the starting test's name. Call it at the top of any test
// that exercises log-emitting code paths and wants readable output. Logging
// is configured only once per process: if any log call or Configure ran
// earlier in the binary, that configuration stays in effect and Start only
// logs the test name.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	logging.Infof("test=%s", t.Name())
}
