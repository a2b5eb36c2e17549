package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger: human readable in development, JSON elsewhere.
func New(level, env string) *zerolog.Logger {
	var out io.Writer = os.Stdout
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "salon-scheduler").Logger()
	return &logger
}

// Nop discards everything; used by tests and optional collaborators.
func Nop() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
