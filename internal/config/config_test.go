package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "API_URL", "VITE_API_URL", "BACKEND_PORT", "DATABASE_DSN", "SESSION_SECRET"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Port != "8080" || cfg.Server.ReadTimeout != 15 || cfg.Server.IdleTimeout != 60 {
		t.Fatalf("unexpected server defaults %+v", cfg.Server)
	}
	if cfg.API.BaseURL != DefaultAPIURL {
		t.Fatalf("expected %s, got %s", DefaultAPIURL, cfg.API.BaseURL)
	}
	if cfg.Backend.Port != "5000" || cfg.Backend.UsePostgres() {
		t.Fatalf("unexpected backend defaults %+v", cfg.Backend)
	}
}

func TestLoadAPIURL(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("VITE_API_URL", "http://api.example:9000/")
	if got := Load().API.BaseURL; got != "http://api.example:9000" {
		t.Fatalf("fallback name ignored or slash kept: %q", got)
	}
	t.Setenv("API_URL", "http://primary:1")
	if got := Load().API.BaseURL; got != "http://primary:1" {
		t.Fatalf("API_URL must win, got %q", got)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("X_INT", "nope")
	if getEnvInt("X_INT", 7) != 7 {
		t.Fatal("invalid int must fall back")
	}
	t.Setenv("X_BOOL", "yes")
	if !getEnvBool("X_BOOL", false) {
		t.Fatal("yes must be true")
	}
	t.Setenv("X_BOOL", "0")
	if getEnvBool("X_BOOL", true) {
		t.Fatal("0 must be false")
	}
}
