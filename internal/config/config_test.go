package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "JWT_EXPIRY_HOURS", "GEMINI_API_KEY", "GEMINI_MODEL",
		"S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_USE_SSL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("expected 24h default expiry, got %v", cfg.JWTExpiry)
	}
	if cfg.GeminiModel != "gemini-1.5-flash" {
		t.Errorf("expected default model, got %q", cfg.GeminiModel)
	}
	if cfg.AIEnabled() {
		t.Errorf("expected AI disabled without an API key")
	}
	if cfg.StorageEnabled() {
		t.Errorf("expected storage disabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY_HOURS", "48")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("S3_ENDPOINT", "minio:9000")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")
	t.Setenv("S3_USE_SSL", "true")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("expected port override, got %q", cfg.Port)
	}
	if cfg.JWTExpiry != 48*time.Hour {
		t.Errorf("expected 48h expiry, got %v", cfg.JWTExpiry)
	}
	if !cfg.AIEnabled() {
		t.Errorf("expected AI enabled with an API key")
	}
	if !cfg.StorageEnabled() {
		t.Errorf("expected storage enabled with credentials")
	}
	if !cfg.S3UseSSL {
		t.Errorf("expected SSL enabled")
	}
}
