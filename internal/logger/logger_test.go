package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLoggerWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "seller-scout", nil)

	log.Info(context.Background(), "screened products", "matched", 3)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d", len(lines))
	}
	rec := lines[0]
	if rec["msg"] != "screened products" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["service"] != "seller-scout" {
		t.Errorf("service = %v", rec["service"])
	}
	if rec["matched"] != float64(3) {
		t.Errorf("matched = %v", rec["matched"])
	}
	if file, _ := rec["file"].(string); !strings.HasPrefix(file, "logger/logger_test.go:") {
		t.Errorf("file = %v, want caller in logger_test.go", rec["file"])
	}
	if _, ok := rec["trace_id"]; ok {
		t.Error("trace_id should be omitted without a span")
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "svc", nil)
	ctx := context.Background()

	log.Debug(ctx, "debug")
	log.Info(ctx, "info")
	log.Warn(ctx, "warn")
	log.Error(ctx, "error")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 records at warn level, got %d", len(lines))
	}
	if lines[0]["level"] != "WARN" || lines[1]["level"] != "ERROR" {
		t.Errorf("unexpected levels: %v, %v", lines[0]["level"], lines[1]["level"])
	}
}

func TestLoggerCustomTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelDebug, "svc", func(context.Context) string { return "abc123" })

	log.Debug(context.Background(), "traced")

	lines := decodeLines(t, &buf)
	if lines[0]["trace_id"] != "abc123" {
		t.Errorf("trace_id = %v", lines[0]["trace_id"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"":      LevelInfo,
		"loud":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
