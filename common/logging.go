package common

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a console logger on stderr tagged with component. The
// level comes from LOG_LEVEL and defaults to info.
func NewLogger(component string) zerolog.Logger {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}
