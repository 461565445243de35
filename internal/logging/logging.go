package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Setup returns a console logger writing to w (stderr when nil). Debug
// output is enabled when verbose is set.
func Setup(verbose bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(console).With().Timestamp().Logger().Level(level)
}
