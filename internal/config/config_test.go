package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFrom(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
magic:
  redirect_url: "https://demo.example/"
glide:
  base_url: "https://glide.example"
  api_key: "key-123"
  dry_run: true
auth:
  jwt_secret: "s3cret"
  token_ttl_minutes: 30
`)

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Magic.RedirectURL != "https://demo.example/" {
		t.Errorf("redirect = %q", cfg.Magic.RedirectURL)
	}
	if cfg.Glide.BaseURL != "https://glide.example" || cfg.Glide.APIKey != "key-123" || !cfg.Glide.DryRun {
		t.Errorf("glide = %+v", cfg.Glide)
	}
	if cfg.Auth.JWTSecret != "s3cret" || cfg.Auth.TokenTTLMinutes != 30 {
		t.Errorf("auth = %+v", cfg.Auth)
	}
}

func TestDefaults(t *testing.T) {
	path := writeConfig(t, `
glide:
  api_key: "key"
`)

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Magic.RedirectURL != "http://localhost:8080/" {
		t.Errorf("default redirect = %q", cfg.Magic.RedirectURL)
	}
	if cfg.Glide.BaseURL == "" {
		t.Error("default glide base_url empty")
	}
	if cfg.Auth.TokenTTLMinutes != 15 {
		t.Errorf("default ttl = %d, want 15", cfg.Auth.TokenTTLMinutes)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
magic:
  redirect_url: "https://file.example/"
`)

	t.Setenv("PORT", "7070")
	t.Setenv("MAGIC_REDIRECT_URI", "https://env.example/")

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", cfg.Server.Port)
	}
	if cfg.Magic.RedirectURL != "https://env.example/" {
		t.Errorf("redirect = %q, want env override", cfg.Magic.RedirectURL)
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadConfigFrom succeeded on missing file")
	}
}
