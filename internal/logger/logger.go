package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns the process logger. Development gets a human readable
// console writer, everything else gets JSON lines on stdout.
func New(env string) zerolog.Logger {
	return newWithWriter(env, os.Stdout)
}

func newWithWriter(env string, out io.Writer) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	}
	return zerolog.New(out).With().Timestamp().Logger()
}
