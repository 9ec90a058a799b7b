package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/voxelrealm/simcore/pkg/core"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = orig })
	return &buf
}

func TestSetup_FileOnly_NoStdout(t *testing.T) {
	out := captureStdout(t)

	var file bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &file, Level: "info"})
	m.Logger().Info("hello file")

	assert.Contains(t, file.String(), "hello file")
	assert.Empty(t, out.String())
}

func TestSetup_NoFile_WritesToStdout(t *testing.T) {
	out := captureStdout(t)

	m := NewSlogManager()
	m.Setup(Options{Level: "info"})
	m.Logger().Info("hello console")

	assert.Contains(t, out.String(), "hello console")
}

func TestSetup_LevelFiltering(t *testing.T) {
	var debug, info bytes.Buffer

	d := NewSlogManager()
	d.Setup(Options{File: &debug, Level: "debug"})
	d.Logger().Debug("debug msg")

	i := NewSlogManager()
	i.Setup(Options{File: &info, Level: "info"})
	i.Logger().Debug("should be filtered")
	i.Logger().Info("should appear")

	assert.Contains(t, debug.String(), "debug msg")
	assert.NotContains(t, info.String(), "should be filtered")
	assert.Contains(t, info.String(), "should appear")
}

func TestSetup_ReplacesLogger(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	m := NewSlogManager()

	m.Setup(Options{File: &buf1, Level: "info"})
	m.Logger().Info("first")
	m.Setup(Options{File: &buf2, Level: "info"})
	m.Logger().Info("second")

	assert.Contains(t, buf1.String(), "first")
	assert.NotContains(t, buf1.String(), "second")
	assert.Contains(t, buf2.String(), "second")
}

func TestSetup_GELFReceivesJSON(t *testing.T) {
	var file, gelf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &file, Level: "info", GELF: &gelf})

	gelf.Reset()
	m.Logger().Info("zombie spawned", "kind", "zombie")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(gelf.Bytes(), &entry))
	assert.Equal(t, "zombie spawned", entry["msg"])
	assert.Equal(t, "zombie", entry["kind"])
	assert.Contains(t, file.String(), "zombie spawned")
}

type fixedSession core.Session

func (f fixedSession) Current() core.Session { return core.Session(f) }

func TestSetup_ContextAttrs(t *testing.T) {
	var file bytes.Buffer
	sess := fixedSession{ID: "s-1", WorldName: "overworld", Difficulty: core.DifficultyUnderworld}
	tick := uint64(41)

	m := NewSlogManager()
	m.Setup(Options{
		File:    &file,
		Level:   "info",
		Context: SessionAttrs(sess, func() uint64 { return tick }),
	})
	tick++
	m.Logger().Info("frame")

	line := lastLine(file.String())
	assert.Contains(t, line, "session=s-1")
	assert.Contains(t, line, "world=overworld")
	assert.Contains(t, line, "difficulty=underworld")
	assert.Contains(t, line, "tick=42")
}

func TestSetup_WithOTelProvider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()

	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(Options{File: &buf, Level: "info", Provider: provider})

	m.Logger().Info("otel integrated")
	assert.Contains(t, buf.String(), "otel integrated")
	assert.NoError(t, m.Flush(context.Background()))
}

func TestLogger_DefaultBeforeSetup(t *testing.T) {
	m := NewSlogManager()
	assert.Equal(t, slog.Default(), m.Logger())
	assert.NoError(t, m.Flush(context.Background()))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.input))
		})
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	multi := NewMultiHandler(
		slog.NewTextHandler(&buf1, nil),
		slog.NewTextHandler(&buf2, nil),
	)
	slog.New(multi).Info("fanned out")

	assert.Contains(t, buf1.String(), "fanned out")
	assert.Contains(t, buf2.String(), "fanned out")
}

func TestMultiHandler_FiltersNilHandlers(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(nil, slog.NewTextHandler(&buf, nil), nil)
	require.Len(t, multi.handlers, 1)

	slog.New(multi).Info("works")
	assert.Contains(t, buf.String(), "works")
}

func TestMultiHandler_Enabled(t *testing.T) {
	infoHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	debugHandler := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	infoOnly := NewMultiHandler(infoHandler)
	assert.False(t, infoOnly.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, infoOnly.Enabled(context.Background(), slog.LevelInfo))

	both := NewMultiHandler(infoHandler, debugHandler)
	assert.True(t, both.Enabled(context.Background(), slog.LevelDebug))

	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelInfo))
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	multi := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	slog.New(multi.WithAttrs([]slog.Attr{slog.String("component", "director")})).Info("with attrs")
	slog.New(multi.WithGroup("grp")).Info("grouped", "key", "val")

	assert.Contains(t, buf.String(), "component=director")
	assert.Contains(t, buf.String(), "grp.key=val")
	assert.Equal(t, multi, multi.WithGroup(""))
}

type errorHandler struct {
	slog.Handler
}

func (h *errorHandler) Handle(context.Context, slog.Record) error { return errors.New("handler error") }
func (h *errorHandler) Enabled(context.Context, slog.Level) bool  { return true }

func TestMultiHandler_HandleError(t *testing.T) {
	var buf bytes.Buffer
	spy := slog.NewTextHandler(&buf, nil)

	multi := NewMultiHandler(&errorHandler{}, spy)
	r := slog.NewRecord(timeZero, slog.LevelInfo, "should reach spy", 0)
	err := multi.Handle(context.Background(), r)

	assert.EqualError(t, err, "handler error")
	assert.Contains(t, buf.String(), "should reach spy")
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
