package logging

import (
	"context"
	"log/slog"

	"github.com/voxelrealm/simcore/pkg/core"
)

// ContextProvider returns attributes computed at log time.
type ContextProvider func() []slog.Attr

// SessionProvider reports the running session.
type SessionProvider interface {
	Current() core.Session
}

// SessionAttrs tags every record with the running session and, when tick is
// non-nil, the current simulation tick.
func SessionAttrs(sessions SessionProvider, tick func() uint64) ContextProvider {
	return func() []slog.Attr {
		s := sessions.Current()
		attrs := []slog.Attr{
			slog.String("session", s.ID),
			slog.String("world", s.WorldName),
			slog.String("difficulty", string(s.Difficulty)),
		}
		if tick != nil {
			attrs = append(attrs, slog.Uint64("tick", tick()))
		}
		return attrs
	}
}

// ContextHandler wraps another handler and injects dynamic context attributes.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

// NewContextHandler creates a handler that adds dynamic context to each record.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{inner: inner, provider: provider}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		r.AddAttrs(h.provider()...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), provider: h.provider}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{inner: h.inner.WithGroup(name), provider: h.provider}
}
