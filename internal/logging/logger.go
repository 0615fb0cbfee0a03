// Package logging builds the process-wide zerolog logger: human-readable
// console output on stderr plus a rotated JSON file for post-run forensics.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation policy for the file log. Pack runs are chatty (one event per
// installer per stage), so the file is capped aggressively.
const (
	logMaxSizeMB  = 20
	logMaxBackups = 5
	logMaxAgeDays = 14
	logTimeFormat = "15:04:05"
)

// Config holds logger configuration
type Config struct {
	Level   string
	LogFile string
	NoColor bool
}

// NewLogger creates a zerolog logger writing to the console and, when a log
// file path is configured, to a size-rotated file as well.
func NewLogger(cfg Config) *zerolog.Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: logTimeFormat,
		NoColor:    cfg.NoColor,
	}}

	if w, ok := rotatedFileWriter(cfg.LogFile); ok {
		writers = append(writers, w)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return &logger
}

// rotatedFileWriter returns a lumberjack writer for path, or ok=false when no
// path is configured or its directory cannot be created. Logging to the
// console alone is always acceptable.
func rotatedFileWriter(path string) (io.Writer, bool) {
	if path == "" {
		return nil, false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, false
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	}, true
}

// parseLevel converts a configured level string to a zerolog.Level, falling
// back to info for anything unrecognized.
func parseLevel(level string) zerolog.Level {
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// NewTestLogger creates a logger for testing that writes to a buffer
func NewTestLogger(w io.Writer) *zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	return &logger
}
