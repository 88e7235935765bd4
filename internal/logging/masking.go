package logging

import (
	"context"
	"log/slog"
	"strings"
)

var sensitiveKeys = []string{
	"password",
	"token",
	"session",
	"cookie",
	"secret",
	"authorization",
}

// MaskingHandler wraps a slog.Handler and replaces the values of sensitive
// attributes with "***".
type MaskingHandler struct {
	next slog.Handler
}

// NewMaskingHandler wraps next.
func NewMaskingHandler(next slog.Handler) *MaskingHandler {
	return &MaskingHandler{next: next}
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = maskAttr(a)
	}
	return &MaskingHandler{next: h.next.WithAttrs(masked)}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{next: h.next.WithGroup(name)}
}

func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(maskAttr(a))
		return true
	})
	return h.next.Handle(ctx, masked)
}

// maskAttr masks a sensitive attribute and walks into groups, so
// slog.Group("auth", "token", t) is masked like a top-level token.
func maskAttr(a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, "***")
	}
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		return a
	}
	members := a.Value.Group()
	masked := make([]slog.Attr, len(members))
	for i, m := range members {
		masked[i] = maskAttr(m)
	}
	return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
}

func isSensitiveKey(key string) bool {
	for _, s := range sensitiveKeys {
		if strings.EqualFold(key, s) {
			return true
		}
	}
	return false
}
