package testutils

import (
	"context"
	"log/slog"
	"sync"
)

// LogRecord is a captured log record with its attributes flattened by key.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// RecordingHandler is a memory-backed slog.Handler for asserting on log output.
type RecordingHandler struct {
	mu      *sync.Mutex
	records *[]LogRecord
	attrs   []slog.Attr
}

// NewRecordingHandler returns an empty RecordingHandler.
func NewRecordingHandler() *RecordingHandler {
	return &RecordingHandler{
		mu:      &sync.Mutex{},
		records: &[]LogRecord{},
	}
}

// NewRecordingLogger returns a logger writing to a fresh RecordingHandler.
func NewRecordingLogger() (*slog.Logger, *RecordingHandler) {
	h := NewRecordingHandler()
	return slog.New(h), h
}

// Enabled satisfies slog.Handler; every level is recorded.
func (h *RecordingHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle satisfies slog.Handler.
func (h *RecordingHandler) Handle(_ context.Context, r slog.Record) error {
	rec := LogRecord{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]any, len(h.attrs)+r.NumAttrs()),
	}
	for _, a := range h.attrs {
		rec.Attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		rec.Attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.records = append(*h.records, rec)
	return nil
}

// WithAttrs satisfies slog.Handler. Derived handlers share the record buffer.
func (h *RecordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &RecordingHandler{mu: h.mu, records: h.records, attrs: merged}
}

// WithGroup satisfies slog.Handler. Groups are ignored.
func (h *RecordingHandler) WithGroup(_ string) slog.Handler {
	return h
}

// Records returns a copy of the captured records.
func (h *RecordingHandler) Records() []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]LogRecord, len(*h.records))
	copy(out, *h.records)
	return out
}

// Find returns the first record with the given message.
func (h *RecordingHandler) Find(message string) (LogRecord, bool) {
	for _, rec := range h.Records() {
		if rec.Message == message {
			return rec, true
		}
	}
	return LogRecord{}, false
}
