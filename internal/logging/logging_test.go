package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timeZero time.Time

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "voxellogs",
			want:    filepath.Join("voxellogs", "voxelsim.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./voxellogs",
			want:    filepath.Join(".", "voxellogs", "voxelsim.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "voxelsim"),
			want:    filepath.Join("/var", "log", "voxelsim", "voxelsim.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogFilePath(tt.logsDir, "voxelsim", sessionStart))
		})
	}
}

func TestOpenLogFile_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	f, err := OpenLogFile(dir, "voxelsim", start)
	require.NoError(t, err)
	_, err = f.WriteString("line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(LogFilePath(dir, "voxelsim", start))
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ZerologLevel("trace"))
	assert.Equal(t, zerolog.DebugLevel, ZerologLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ZerologLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, ZerologLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ZerologLevel("whatever"))
}

func TestNewZerolog_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerolog(&buf, "info", "database")

	l.Debug().Msg("hidden")
	l.Info().Msg("migrated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "migrated", entry["message"])
	assert.Equal(t, "database", entry["component"])
	assert.Contains(t, entry, "time")
}
