// Package logging builds the application logger. The terminal belongs to the
// user interface, so logs normally go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Stderr as the file name logs to standard error.
const Stderr = "-"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel maps a config value to a zerolog level. Unknown values mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "OFF", "DISABLED":
		return zerolog.Disabled
	}
	return zerolog.InfoLevel
}

// New returns a logger at level writing to file. An empty file disables
// logging; Stderr writes coloured output to standard error. The returned
// closer releases the file.
func New(level, file string) (zerolog.Logger, io.Closer, error) {
	var out io.Writer
	var closer io.Closer = nopCloser{}

	switch file {
	case "":
		return zerolog.Nop(), closer, nil
	case Stderr:
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	default:
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("failed to open log file: %w", err)
		}
		out = zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}
		closer = f
	}

	log := zerolog.New(out).Level(ParseLevel(level)).With().Timestamp().Logger()
	return log, closer, nil
}
