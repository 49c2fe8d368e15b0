package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// LogLevel is the console level for the -v and -q flags. The two are
// mutually exclusive; verbose wins if both are set.
func LogLevel(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// NewLogHandler logs text to console at level. When file is non-nil every
// record, down to debug, is also written there as JSON.
func NewLogHandler(console io.Writer, level slog.Level, file io.Writer) slog.Handler {
	text := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
	if file == nil {
		return text
	}
	js := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewMultiHandler(text, js)
}

// MultiHandler fans each record out to every wrapped handler that accepts
// its level. It backs the stderr text log plus the optional --log JSON file.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler returns a handler writing to all of hs.
func NewMultiHandler(hs ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: hs}
}

func (m *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // hugeParam: slog.Handler fixes the signature
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: out}
}

func (m *MultiHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		out[i] = h.WithGroup(name)
	}
	return &MultiHandler{handlers: out}
}
