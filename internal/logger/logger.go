// Package logger builds the zerolog logger shared by the binaries.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger at level for service. Development output is a
// human readable console; production output is JSON lines.
func New(service, level string, production bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, service, level, production)
}

func NewWithWriter(w io.Writer, service, level string, production bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if !production {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
