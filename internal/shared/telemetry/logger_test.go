package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Info("session created", map[string]any{"session_id": "abc", "count": 2})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "info" || entry["msg"] != "session created" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["session_id"] != "abc" || entry["count"] != float64(2) {
		t.Fatalf("expected fields in entry, got %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts field, got %v", entry)
	}
}

func TestErrorFieldsAreStrings(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Error("generation failed", map[string]any{"error": errors.New("boom")})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json log line: %v", err)
	}
	if entry["level"] != "error" || entry["error"] != "boom" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
