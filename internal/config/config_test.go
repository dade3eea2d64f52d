package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
jwt:
  secret: short
  expire_hours: 2
ai:
  provider: openai
  timeout_seconds: 15
storage:
  type: local
  local_path: `+uploads+`
cors:
  allowed_origins: ["http://a.test"]
`)
	t.Setenv("FRONTEND_URL", "https://tutor.test")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.JWT.ExpireTime != 2*time.Hour || cfg.AI.Timeout != 15*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.AI.Provider != "openai" || cfg.AI.Model != "gemini-1.5-flash" {
		t.Errorf("ai = %+v", cfg.AI)
	}
	if got := cfg.CORS.Origins(); len(got) != 2 || got[1] != "https://tutor.test" {
		t.Errorf("origins = %v", got)
	}
	if cfg.RateLimit.MaxRequests != 600 {
		t.Errorf("rate limit default = %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.Log.Level != "warn" || cfg.Log.File != "logs/tutor.log" || cfg.Log.MaxBackups != 5 || !cfg.Log.Console {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Tracing.SampleRatio != 1 || cfg.Tracing.ServiceName != "python-tutor-backend" {
		t.Errorf("tracing = %+v", cfg.Tracing)
	}
	if _, err := os.Stat(uploads); err != nil {
		t.Errorf("local upload dir not created: %v", err)
	}
}

func TestLoadConfig_ReleaseNeedsLongSecret(t *testing.T) {
	dir := writeConfig(t, "server:\n  mode: release\nstorage:\n  type: minio\n")
	t.Setenv("JWT_SECRET", "too-short")
	if _, err := LoadConfig(dir); err == nil {
		t.Error("release mode accepted a short JWT secret")
	}

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	if _, err := LoadConfig(dir); err != nil {
		t.Errorf("LoadConfig() error = %v", err)
	}
}
