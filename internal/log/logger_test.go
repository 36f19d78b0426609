package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSONLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf}).WithComponent(ComponentStore)

	l.Info("Ledger loaded", NewFields().WithOperation(OpLoad).WithCount(3).ToSlice()...)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected json record, got %q: %v", buf.String(), err)
	}
	if rec[FieldComponent] != ComponentStore || rec[FieldOperation] != OpLoad || rec[FieldCount] != float64(3) {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})

	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestWithErrorSkipsNil(t *testing.T) {
	f := NewFields().WithError(nil, ErrorTypeStorage)
	if len(f) != 0 {
		t.Fatalf("nil error must add no fields, got %v", f)
	}
	f = NewFields().WithError(errors.New("disk full"), ErrorTypeStorage)
	if f[FieldError] != "disk full" || f[FieldErrorType] != ErrorTypeStorage {
		t.Fatalf("unexpected fields: %v", f)
	}
}
