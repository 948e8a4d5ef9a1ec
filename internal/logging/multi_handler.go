package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans every record out to a set of handlers, typically the
// terminal handler plus a JSON file sink.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler wraps handlers into a single fan-out handler.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports true when any wrapped handler accepts the level, so a
// verbose file sink keeps records flowing even with a quiet terminal.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle forwards the record to every handler that accepts its level.
// All handlers run; their errors are joined.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, hh := range h.handlers {
		if !hh.Enabled(ctx, r.Level) {
			continue
		}
		if err := hh.Handle(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs applies attrs to every wrapped handler.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewMultiHandler(h.apply(func(hh slog.Handler) slog.Handler {
		return hh.WithAttrs(attrs)
	})...)
}

// WithGroup applies the group to every wrapped handler.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return NewMultiHandler(h.apply(func(hh slog.Handler) slog.Handler {
		return hh.WithGroup(name)
	})...)
}

func (h *MultiHandler) apply(f func(slog.Handler) slog.Handler) []slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		out[i] = f(hh)
	}
	return out
}
