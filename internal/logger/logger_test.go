package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSetup_OutputsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf)

	log.Info("hello", slog.String("key", "value"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output should be JSON: %v", err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want %q", entry["msg"], "hello")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want %q", entry["key"], "value")
	}
}

func TestSetup_DebugLevelSuppressed(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf)

	log.Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("debug log should be suppressed at info level, got %q", buf.String())
	}
}

func TestSetupDefault_SetsGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	SetupDefault(&buf)

	slog.Info("via default logger")

	if buf.Len() == 0 {
		t.Error("global logger should write to the provided writer")
	}
}
