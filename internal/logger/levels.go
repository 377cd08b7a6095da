package logger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// LevelNotSet marks a named logger that inherits the root level.
const LevelNotSet zerolog.Level = -128

// ParseLevel converts a level name as used in logging configuration files
// into a zerolog level. Names are case-insensitive; WARNING and CRITICAL are
// accepted as aliases of WARN and FATAL.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NOTSET":
		return LevelNotSet, nil
	case "TRACE":
		return zerolog.TraceLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "WARN", "WARNING":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "CRITICAL", "FATAL":
		return zerolog.FatalLevel, nil
	case "PANIC":
		return zerolog.PanicLevel, nil
	case "OFF", "DISABLED":
		return zerolog.Disabled, nil
	}

	return LevelNotSet, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
