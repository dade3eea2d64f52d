package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"python_tutor_backend/internal/config"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_WritesJSONAboveLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutor.log")
	l, err := New(config.LogConfig{Level: "warn", File: path, MaxSizeMB: 1}, "debug")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("dropped")
	l.Warn("lesson reordered", zap.Uint("moduleId", 3))
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("log file has %d lines, want 1: %s", len(lines), data)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["msg"] != "lesson reordered" || entry["level"] != "warn" || entry["moduleId"] != float64(3) {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry has no time key")
	}
}

func TestNew_LevelFollowsMode(t *testing.T) {
	tests := []struct {
		level string
		mode  string
		debug bool
	}{
		{"", "debug", true},
		{"", "release", false},
		{"debug", "release", true},
		{"error", "debug", false},
	}
	for _, tt := range tests {
		file := filepath.Join(t.TempDir(), "tutor.log")
		l, err := New(config.LogConfig{Level: tt.level, File: file}, tt.mode)
		if err != nil {
			t.Fatalf("New(%q, %q) error = %v", tt.level, tt.mode, err)
		}
		if got := l.Core().Enabled(zap.DebugLevel); got != tt.debug {
			t.Errorf("New(%q, %q) debug enabled = %v, want %v", tt.level, tt.mode, got, tt.debug)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}, "debug"); err == nil {
		t.Error("New() accepted an unknown level")
	}
}
