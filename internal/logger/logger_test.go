package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")

	log.Info("hello", "user", "alice")

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Errorf("expected JSON output, got %q", out)
	}
	if !strings.Contains(out, `"user":"alice"`) {
		t.Errorf("expected user attribute in output, got %q", out)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")

	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn message, got %q", out)
	}
}

func TestInitFile_WritesDebugLog(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	dir := filepath.Join(t.TempDir(), "nested")
	if err := InitFile(dir, "debug", "text"); err != nil {
		t.Fatalf("InitFile failed: %v", err)
	}
	slog.Debug("screen changed", "screen", "login")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, DebugLogName))
	if err != nil {
		t.Fatalf("expected debug log file: %v", err)
	}
	if !strings.Contains(string(data), "screen changed") {
		t.Errorf("expected log line in file, got %q", string(data))
	}

	info, err := os.Stat(filepath.Join(dir, DebugLogName))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}
}

func TestInitFile_EmptyDirDiscards(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	if err := InitFile("", "debug", "text"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	slog.Info("goes nowhere")
	Close()
}
