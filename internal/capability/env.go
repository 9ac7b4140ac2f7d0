package capability

import (
	"os"
	"strings"
	"sync"
)

// EnvVar is the process-wide environment variable that overlays the default
// capability set, following the same env-overridden-config shape as
// internal/logging.applyEnvOverrides but for wire capabilities.
const EnvVar = "QI_TRANSPORT_CAPABILITIES"

var (
	overlayOnce   sync.Once
	overlayResult Map
)

// DefaultsWithEnvOverlay returns Defaults() overlaid once per process with
// QI_TRANSPORT_CAPABILITIES, memoized for the process lifetime. Each
// colon-separated token is one of:
//
//	name        set to boolean true
//	+name       set to boolean true
//	-name       remove the entry
//	name=value  set to the literal string value (no type coercion)
//
// Empty tokens are ignored.
func DefaultsWithEnvOverlay() Map {
	overlayOnce.Do(func() {
		overlayResult = applyEnvOverlay(Defaults(), os.Getenv(EnvVar))
	})
	return overlayResult.Clone()
}

func applyEnvOverlay(base Map, raw string) Map {
	out := base
	for _, tok := range strings.Split(raw, ":") {
		if tok == "" {
			continue
		}
		if eq := strings.IndexByte(tok, '='); eq >= 0 {
			out[tok[:eq]] = String(tok[eq+1:])
			continue
		}
		switch tok[0] {
		case '-':
			delete(out, tok[1:])
		case '+':
			out[tok[1:]] = Bool(true)
		default:
			out[tok] = Bool(true)
		}
	}
	return out
}

// resetOverlayForTest clears the memoized overlay so tests can exercise
// DefaultsWithEnvOverlay under different environment values. Not exported:
// production code must only ever observe one overlay per process.
func resetOverlayForTest() {
	overlayOnce = sync.Once{}
	overlayResult = nil
}
