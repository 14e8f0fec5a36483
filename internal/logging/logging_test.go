package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	logger := New("analyzer")
	logger.Info("hello")

	output := buf.String()
	if !strings.Contains(output, "component=analyzer") {
		t.Errorf("expected component=analyzer in output, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("expected 'hello' in output, got: %s", output)
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelInfo, "json", &buf)

	slog.Info("structured", "key", "value")

	output := buf.String()
	if !strings.Contains(output, `"key":"value"`) {
		t.Errorf("expected JSON attribute in output, got: %s", output)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, "text", &buf)

	slog.Info("dropped")
	slog.Warn("kept")

	output := buf.String()
	if strings.Contains(output, "dropped") {
		t.Errorf("info record should be filtered at warn level, got: %s", output)
	}
	if !strings.Contains(output, "kept") {
		t.Errorf("expected warn record in output, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
