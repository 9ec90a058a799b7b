package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// stdout is swapped by tests.
var stdout io.Writer = os.Stdout

// Options selects the outputs of a SlogManager.
type Options struct {
	// File receives text records. When nil, records go to stdout instead.
	File  io.Writer
	Level string
	// Provider enables the OpenTelemetry bridge when non-nil.
	Provider *sdklog.LoggerProvider
	// GELF receives JSON records for Graylog when non-nil.
	GELF    io.Writer
	Context ContextProvider
}

// SlogManager owns the process slog.Logger.
type SlogManager struct {
	logger      *slog.Logger
	logProvider *sdklog.LoggerProvider
}

func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup (re)builds the logger. Calling it again replaces every output, as
// happens when a new session opens a new log file.
func (m *SlogManager) Setup(opts Options) {
	m.logProvider = opts.Provider

	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(opts.Level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	if opts.File != nil {
		handlers = append(handlers, slog.NewTextHandler(opts.File, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(stdout, handlerOpts))
	}
	if opts.Provider != nil {
		handlers = append(handlers, otelslog.NewHandler("voxelsim", otelslog.WithLoggerProvider(opts.Provider)))
	}
	handlers = append(handlers, NewGELFHandler(opts.GELF, handlerOpts))

	var h slog.Handler = NewMultiHandler(handlers...)
	if opts.Context != nil {
		h = NewContextHandler(h, opts.Context)
	}

	m.logger = slog.New(h)
	m.logger.Info("Logging initialized", "level", opts.Level)
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *SlogManager) Logger() *slog.Logger {
	if m == nil || m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Flush forces out pending OpenTelemetry records.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
