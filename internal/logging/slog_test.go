package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBufLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestSlogLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *SlogLogger)
		level string
	}{
		{"info", func(l *SlogLogger) { l.Info(context.Background(), "msg") }, "INFO"},
		{"warn", func(l *SlogLogger) { l.Warn(context.Background(), "msg") }, "WARN"},
		{"error", func(l *SlogLogger) { l.Error(context.Background(), "msg") }, "ERROR"},
		{"debug", func(l *SlogLogger) { l.Debug(context.Background(), "msg") }, "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufLogger(t)
			tt.log(l)
			rec := lastRecord(t, buf)
			require.Equal(t, tt.level, rec["level"])
			require.Equal(t, "msg", rec["msg"])
		})
	}
}

func TestSlogLogger_WithAddsAttrs(t *testing.T) {
	l, buf := newBufLogger(t)
	child := l.With("module", "pricing")
	child.Info(context.Background(), "quoted", "weight", 2.5)

	rec := lastRecord(t, buf)
	require.Equal(t, "pricing", rec["module"])
	require.Equal(t, 2.5, rec["weight"])
}
