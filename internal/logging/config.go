// Package logging configures a single process-wide zerolog logger and
// exposes it through a small set of printf-style helpers, so call sites
// read the same way regardless of which concrete sink is wired underneath.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "QIMSG_LOG_LEVEL"
	EnvLogTimestamp = "QIMSG_LOG_TIMESTAMP"
	EnvLogNoColor   = "QIMSG_LOG_NOCOLOR"
	EnvLogBypass    = "QIMSG_LOG_BYPASS"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var (
	configureOnce sync.Once
	logger        zerolog.Logger
	bypass        bool
)

// ConfigureRuntime configures the global logger for normal process use. It
// is safe to call more than once; only the first call takes effect.
func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

// ConfigureTests configures the global logger for `go test` runs: debug
// level, no timestamps (so golden output stays stable).
func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	configureOnce.Do(func() {
		level, withTimestamp, noColor, skip := defaultsFor(profile)
		applyEnvOverrides(&level, &withTimestamp, &noColor, &skip)
		bypass = skip

		var w io.Writer = os.Stderr
		if !bypass {
			cw := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor || !isatty.IsTerminal(os.Stderr.Fd())}
			if !withTimestamp {
				cw.PartsExclude = []string{zerolog.TimestampFieldName}
			}
			w = cw
		}
		logger = zerolog.New(w).Level(level)
		if withTimestamp {
			logger = logger.With().Timestamp().Logger()
		}
	})
}

func defaultsFor(profile Profile) (level zerolog.Level, timestamp, noColor, skip bool) {
	switch profile {
	case ProfileTest:
		return zerolog.DebugLevel, false, true, false
	default:
		return zerolog.InfoLevel, true, false, false
	}
}

func applyEnvOverrides(level *zerolog.Level, timestamp, noColor, skip *bool) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		*level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		*timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		*noColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogBypass)); ok {
		*skip = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}

func ensureConfigured() {
	configureOnce.Do(func() {
		logger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel)
	})
}

// Debugf logs at debug level. Used for expected, non-actionable dispatch
// misses (a null recipient uid, a legitimate cache miss on the slow path).
func Debugf(format string, args ...any) {
	ensureConfigured()
	if bypass {
		return
	}
	logger.Debug().Msgf(format, args...)
}

// Infof logs at info level.
func Infof(format string, args ...any) {
	ensureConfigured()
	if bypass {
		return
	}
	logger.Info().Msgf(format, args...)
}

// Warnf logs at warn level. Used for precondition violations and other
// bugs-not-failures that still let the caller fall back safely.
func Warnf(format string, args ...any) {
	ensureConfigured()
	if bypass {
		return
	}
	logger.Warn().Msgf(format, args...)
}

// Errorf logs at error level.
func Errorf(format string, args ...any) {
	ensureConfigured()
	if bypass {
		return
	}
	logger.Error().Msgf(format, args...)
}
