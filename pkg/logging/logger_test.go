package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSONTestLogger(buf *bytes.Buffer, level Level) Logger {
	return NewLogger(&Config{
		Level:       level,
		ServiceName: "test-service",
		JSONFormat:  true,
		Output:      buf,
	})
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var output map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	return output
}

func TestNewLogger_DefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("expected default level to be info, got %s", cfg.Level)
	}
	if cfg.ServiceName != "chatview" {
		t.Errorf("expected default service name to be 'chatview', got %s", cfg.ServiceName)
	}
	if cfg.JSONFormat {
		t.Error("expected default JSONFormat to be false")
	}
}

func TestNewLogger_NilConfig(t *testing.T) {
	if log := NewLogger(nil); log == nil {
		t.Error("expected non-nil logger with nil config")
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newJSONTestLogger(buf, LevelDebug)
	log.Info("test message", F("key", "value"), F("count", 3))

	output := decodeLine(t, buf)

	if output["message"] != "test message" {
		t.Errorf("expected message 'test message', got %v", output["message"])
	}
	if output["service_name"] != "test-service" {
		t.Errorf("expected service_name 'test-service', got %v", output["service_name"])
	}
	if output["key"] != "value" {
		t.Errorf("expected key 'value', got %v", output["key"])
	}
	if output["count"] != float64(3) {
		t.Errorf("expected count 3, got %v", output["count"])
	}
	if _, ok := output["time"]; !ok {
		t.Error("expected timestamp field 'time' in output")
	}
	if output["level"] != "info" {
		t.Errorf("expected level 'info', got %v", output["level"])
	}
}

func TestLogger_AllLevels(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger)
		expected string
	}{
		{"debug", func(l Logger) { l.Debug("debug message") }, "debug"},
		{"info", func(l Logger) { l.Info("info message") }, "info"},
		{"warn", func(l Logger) { l.Warn("warn message") }, "warn"},
		{"error", func(l Logger) { l.Error("error message") }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			tt.logFunc(newJSONTestLogger(buf, LevelDebug))

			output := decodeLine(t, buf)
			if output["level"] != tt.expected {
				t.Errorf("expected level %s, got %v", tt.expected, output["level"])
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newJSONTestLogger(buf, LevelWarn)

	log.Debug("hidden")
	log.Info("hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	log.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn output, got %q", buf.String())
	}
}

func TestLogger_WithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newJSONTestLogger(buf, LevelInfo)

	log = log.With(F("component", "convert"), F("input", "meeting.docx"))
	log.Info("converted")

	output := decodeLine(t, buf)
	if output["component"] != "convert" {
		t.Errorf("expected component 'convert', got %v", output["component"])
	}
	if output["input"] != "meeting.docx" {
		t.Errorf("expected input 'meeting.docx', got %v", output["input"])
	}
}

func TestLogger_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newJSONTestLogger(buf, LevelInfo)

	ctx := ContextWithRunID(context.Background(), "run-123")
	log.WithContext(ctx).Info("traced")

	output := decodeLine(t, buf)
	if output["run_id"] != "run-123" {
		t.Errorf("expected run_id 'run-123', got %v", output["run_id"])
	}
}

func TestLogger_WithContext_EmptyContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newJSONTestLogger(buf, LevelInfo)

	log.WithContext(context.Background()).Info("no run")

	output := decodeLine(t, buf)
	if _, ok := output["run_id"]; ok {
		t.Error("expected no run_id field for empty context")
	}
}

func TestLogger_ErrorField(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newJSONTestLogger(buf, LevelInfo)

	log.Error("failed", Err(errors.New("disk full")))

	output := decodeLine(t, buf)
	if output["error"] != "disk full" {
		t.Errorf("expected error 'disk full', got %v", output["error"])
	}
}

func TestLogger_ConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(&Config{Level: LevelInfo, ServiceName: "test", Output: buf})

	log.Info("console message", F("speakers", 2))

	out := buf.String()
	if !strings.Contains(out, "console message") {
		t.Errorf("expected message in console output, got %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no colour codes when writing to a buffer")
	}
}

func TestLevel_IsValid(t *testing.T) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if !l.IsValid() {
			t.Errorf("expected %s to be valid", l)
		}
	}
	if Level("verbose").IsValid() {
		t.Error("expected 'verbose' to be invalid")
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()
	log.Info("ignored", F("a", 1))
	if log.With(F("a", 1)) == nil {
		t.Error("nop With should return a logger")
	}
	if log.WithContext(ContextWithRunID(context.Background(), "r")) == nil {
		t.Error("nop WithContext should return a logger")
	}
}

func TestLogger_DurationAndSliceFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newJSONTestLogger(buf, LevelInfo)

	log.Info("icons", F("written", []string{"icons/icon_000.png"}), F("elapsed", 1500*time.Millisecond))

	output := decodeLine(t, buf)
	written, ok := output["written"].([]interface{})
	if !ok || len(written) != 1 || written[0] != "icons/icon_000.png" {
		t.Errorf("unexpected written field: %v", output["written"])
	}
	if output["elapsed"] != float64(1500) {
		t.Errorf("expected elapsed 1500 (ms), got %v", output["elapsed"])
	}
}

func TestZerologLevel_UnknownDefaultsToInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	log := newJSONTestLogger(buf, Level("chatty"))

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug to be filtered at default info level, got %q", buf.String())
	}
	log.Info("shown")
	if buf.Len() == 0 {
		t.Error("expected info output")
	}
}
