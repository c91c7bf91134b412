package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerJSONWhenPiped(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, true)
	logger.Debug("command finished", "exit_code", 0)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "command finished" || entry["level"] != "DEBUG" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestLoggerQuietByDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(buf, false)
	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug/info should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warning should be logged, got %q", out)
	}
}
