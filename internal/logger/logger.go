// ABOUTME: Structured logging configuration using log/slog.
// ABOUTME: Provides Init() for stderr logging and InitFile() for the TUI debug log.

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DebugLogName is the file InitFile writes to inside the config directory
const DebugLogName = "debug.log"

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init configures the default slog logger to write to stderr.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func Init(level, format string) {
	setDefault(os.Stderr, level, format)
}

// InitFile configures the default slog logger to append to debug.log in
// configDir, keeping the terminal free for the TUI. An empty configDir
// discards all log output.
func InitFile(configDir, level, format string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	if configDir == "" {
		setDefault(io.Discard, level, format)
		return nil
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		setDefault(io.Discard, level, format)
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, DebugLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		setDefault(io.Discard, level, format)
		return err
	}
	logFile = f
	setDefault(f, level, format)
	return nil
}

// Close closes the debug log file opened by InitFile, if any
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// New builds a logger writing to w with the given level and format
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func setDefault(w io.Writer, level, format string) {
	slog.SetDefault(New(w, level, format))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
