// Package logging wires slog and zerolog output for the simulation host.
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

// LogFilePath builds a per-session log file path.
func LogFilePath(logsDir, name string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", name, sessionStart.Format("20060102_150405")),
	)
}

// OpenLogFile creates logsDir if needed and opens the session log file for
// appending.
func OpenLogFile(logsDir, name string, sessionStart time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs dir: %w", err)
	}
	path := LogFilePath(logsDir, name, sessionStart)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// ZerologLevel maps a config level string onto zerolog.
func ZerologLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewZerolog builds the logger used by the database, influx and dispatcher
// layers. Output goes to w as JSON lines tagged with component.
func NewZerolog(w io.Writer, level, component string) zerolog.Logger {
	return zerolog.New(w).
		Level(ZerologLevel(level)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}
