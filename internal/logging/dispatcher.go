package logging

import (
	"time"

	"github.com/rs/zerolog"
)

// DispatcherLogger adapts zerolog.Logger to the dispatcher.Logger interface.
// Lines are tagged with the running session, and commands the player can
// spam are sampled below error level.
type DispatcherLogger struct {
	logger  zerolog.Logger
	sampled zerolog.Logger
	chatty  map[string]bool
	session func() string
}

// DispatcherOption configures a DispatcherLogger.
type DispatcherOption func(*DispatcherLogger)

// WithSession tags every line with the id session returns. Empty ids are
// left out.
func WithSession(session func() string) DispatcherOption {
	return func(l *DispatcherLogger) { l.session = session }
}

// WithSampledCommands keeps at most burst debug/info lines per period for
// each listed command. Errors are always written.
func WithSampledCommands(burst uint32, period time.Duration, commands ...string) DispatcherOption {
	return func(l *DispatcherLogger) {
		l.sampled = l.logger.Sample(&zerolog.BurstSampler{Burst: burst, Period: period})
		for _, c := range commands {
			l.chatty[c] = true
		}
	}
}

// NewDispatcherLogger wraps a zerolog.Logger.
func NewDispatcherLogger(logger zerolog.Logger, opts ...DispatcherOption) *DispatcherLogger {
	l := &DispatcherLogger{logger: logger, sampled: logger, chatty: make(map[string]bool)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	l.write(zerolog.DebugLevel, msg, keysAndValues)
}

func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	l.write(zerolog.InfoLevel, msg, keysAndValues)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	l.write(zerolog.ErrorLevel, msg, keysAndValues)
}

func (l *DispatcherLogger) write(level zerolog.Level, msg string, keysAndValues []any) {
	fields := toFields(keysAndValues)
	logger := &l.logger
	if cmd, ok := fields["command"].(string); ok && l.chatty[cmd] && level < zerolog.ErrorLevel {
		logger = &l.sampled
	}

	ev := logger.WithLevel(level)
	if ev == nil {
		return
	}
	if l.session != nil {
		if id := l.session(); id != "" {
			ev = ev.Str("session", id)
		}
	}
	ev.Fields(fields).Msg(msg)
}

// toFields pairs up keys and values; a trailing key without a value and
// non-string keys are dropped.
func toFields(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fields[key] = keysAndValues[i+1]
		}
	}
	return fields
}
