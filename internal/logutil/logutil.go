// Package logutil configures the process-wide zerolog logger.
package logutil

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a timestamped JSON logger at the given level. Unknown levels
// fall back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
