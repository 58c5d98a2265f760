// Package log configures the process-wide slog logger.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dotse/slug"
	slogmulti "github.com/samber/slog-multi"
)

type Level string

const (
	Debug Level = "debug"
	Info  Level = "info"
	Warn  Level = "warn"
	Error Level = "error"
)

// ToSlogLevel maps our levels to the equivalent slog level. Unknown values map to error.
func ToSlogLevel(level Level) slog.Level {
	switch level {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// NewHandler builds the handler MustCreateLogger installs: a slug console
// handler on console, fanned out to a second one on file when file is non-nil.
func NewHandler(level Level, console io.Writer, file io.Writer) slog.Handler {
	opts := slug.HandlerOptions{
		HandlerOptions: slog.HandlerOptions{
			Level: ToSlogLevel(level),
		},
	}
	handlers := []slog.Handler{slug.NewHandler(opts, console)}
	if file != nil {
		handlers = append(handlers, slug.NewHandler(opts, file))
	}
	return slogmulti.Fanout(handlers...)
}

// MustCreateLogger installs the default logger writing to stderr and, when
// logPath is set, also to that file. Command output owns stdout.
//
// Returns a cleanup function which should be called on program shutdown.
//
// Panics on failure to open the log file for writing.
func MustCreateLogger(logPath string, level Level) func() {
	var (
		closer = func() {}
		file   io.Writer
	)
	if logPath != "" {
		logFile, errLogFile := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if errLogFile != nil {
			panic(fmt.Sprintf("Failed to open logfile: %v", errLogFile))
		}
		closer = func() {
			if errClose := logFile.Close(); errClose != nil {
				panic(fmt.Sprintf("Failed to close log file: %v", errClose))
			}
		}
		file = logFile
	}

	slog.SetDefault(slog.New(NewHandler(level, os.Stderr, file)))

	return closer
}

// Closer closes c, logging any failure.
func Closer(c io.Closer) {
	if errClose := c.Close(); errClose != nil {
		slog.Error("Failed to close", slog.String("error", errClose.Error()))
	}
}
