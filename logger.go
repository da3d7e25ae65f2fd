package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger creates the process logger. Pretty output goes to the console
// writer, everything else is JSON on stderr so stdout stays free for
// command output.
func newLogger(cfg LogConfig, debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if debug {
		level = zerolog.DebugLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Pretty || debug {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "paper-timeline").
		Logger()
}
