package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.WebsocketPort != 8081 {
		t.Errorf("unexpected ports: %d/%d", cfg.Port, cfg.WebsocketPort)
	}
	if cfg.ServerType != "http" {
		t.Errorf("expected default server type http, got %q", cfg.ServerType)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("unexpected default model: %q", cfg.GeminiModel)
	}
	if cfg.CacheTTL != 24*time.Hour || cfg.SessionTimeout != 24*time.Hour {
		t.Errorf("unexpected TTLs: %v/%v", cfg.CacheTTL, cfg.SessionTimeout)
	}
	if cfg.CatalogURL != "https://cervezafortuna.com/inicio/cervezas/" {
		t.Errorf("unexpected catalog url: %q", cfg.CatalogURL)
	}
	if cfg.RequestTimeout != 10*time.Second || cfg.MaxRetries != 2 {
		t.Errorf("unexpected fetch settings: %v/%d", cfg.RequestTimeout, cfg.MaxRetries)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("PORT", "9000")
	t.Setenv("SERVER_TYPE", "both")
	t.Setenv("SESSION_TIMEOUT_HOURS", "48")
	t.Setenv("CACHE_TTL_HOURS", "6")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("MAX_RETRIES", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" || cfg.Port != 9000 || cfg.ServerType != "both" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.SessionTimeout != 48*time.Hour || cfg.CacheTTL != 6*time.Hour {
		t.Errorf("duration overrides not applied: %v/%v", cfg.SessionTimeout, cfg.CacheTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("origin list not parsed: %v", cfg.AllowedOrigins)
	}
	if cfg.RequestTimeout != 5*time.Second || cfg.MaxRetries != 4 {
		t.Errorf("fetch overrides not applied: %v/%d", cfg.RequestTimeout, cfg.MaxRetries)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		key   string
		value string
	}{
		{"PORT", "not-a-number"},
		{"SERVER_TYPE", "grpc"},
		{"MAX_SESSIONS", "many"},
		{"CACHE_TTL_HOURS", "1.5"},
	}
	for _, tt := range cases {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "test-key")
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
