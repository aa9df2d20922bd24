package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Record is a log record formatted for the console log box.
type Record struct {
	Time    time.Time
	Level   slog.Level
	Summary string
}

// String renders the record as one log box line.
func (r Record) String() string {
	return fmt.Sprintf("[%s] %s", r.Time.Format("15:04:05"), r.Summary)
}

// TUIHandler is a slog.Handler that delivers records on a channel the
// console drains between frames. Records that arrive while the channel is
// full are dropped, so logging never blocks the caller.
//
// Handlers derived via WithAttrs/WithGroup share the channel.
type TUIHandler struct {
	level   slog.Leveler
	records chan Record
	attrs   []slog.Attr
	groups  []string
}

// NewTUIHandler creates a handler for records at or above level, buffering
// up to size undelivered records.
func NewTUIHandler(level slog.Leveler, size int) *TUIHandler {
	if size < 1 {
		size = 1
	}
	return &TUIHandler{
		level:   level,
		records: make(chan Record, size),
	}
}

// Records returns the channel the console reads from.
func (h *TUIHandler) Records() <-chan Record {
	return h.records
}

func (h *TUIHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats the record as "message (key=value, ...)".
func (h *TUIHandler) Handle(_ context.Context, record slog.Record) error {
	prefix := strings.Join(h.groups, ".")
	if prefix != "" {
		prefix += "."
	}

	var parts []string
	for _, attr := range h.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s%s=%s", prefix, attr.Key, attr.Value))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}

	select {
	case h.records <- Record{Time: record.Time, Level: record.Level, Summary: summary}:
	default:
		// Drop if channel full
	}
	return nil
}

func (h *TUIHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TUIHandler{
		level:   h.level,
		records: h.records,
		attrs:   append(clone(h.attrs), attrs...),
		groups:  clone(h.groups),
	}
}

func (h *TUIHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &TUIHandler{
		level:   h.level,
		records: h.records,
		attrs:   clone(h.attrs),
		groups:  append(clone(h.groups), name),
	}
}

func clone[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
