package logging

import (
	"context"
	"errors"
	"log/slog"
)

// AttrsFunc is called for every record; its attributes are appended to the
// record. The CLI uses it to tag records with the input being processed.
type AttrsFunc func() []slog.Attr

// teeHandler hands each record to every handler that accepts its level.
type teeHandler []slog.Handler

func newTeeHandler(handlers ...slog.Handler) teeHandler {
	t := make(teeHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			t = append(t, h)
		}
	}
	return t
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers r to every enabled handler even when an earlier one fails.
func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return t
	}
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

// attrsHandler appends the attributes of fn to each record before passing it on.
type attrsHandler struct {
	next slog.Handler
	fn   AttrsFunc
}

func (h attrsHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h attrsHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.fn()...)
	return h.next.Handle(ctx, r)
}

func (h attrsHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return attrsHandler{next: h.next.WithAttrs(attrs), fn: h.fn}
}

func (h attrsHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return attrsHandler{next: h.next.WithGroup(name), fn: h.fn}
}
