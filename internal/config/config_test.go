package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, defaultPort)
	}
	if !cfg.IsDev() {
		t.Error("missing config should default to development mode")
	}
	if cfg.Extraction.MinAcceptLength != DefaultMinAcceptLength {
		t.Errorf("MinAcceptLength = %d, want %d", cfg.Extraction.MinAcceptLength, DefaultMinAcceptLength)
	}
	if cfg.PDFCo.Endpoint != DefaultPDFCoEndpoint {
		t.Errorf("PDFCo endpoint = %q", cfg.PDFCo.Endpoint)
	}
	if len(cfg.AI.Backends) == 0 {
		t.Fatal("default backend set is empty")
	}
	if cfg.AI.DefaultBackend == "" {
		t.Error("no default backend selected")
	}
}

func TestLoadParsesAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
port: 4000
env: production
tz: Europe/Berlin
cors_allowed_origins:
  - app.example.com
database:
  host: db.internal
  user: rh
  password: secret
  name: researchhub
redis:
  host: cache.internal
  password: hushhush
extraction:
  min_accept_length: 300
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != 4000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.IsDev() {
		t.Error("env: production should not report dev mode")
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "app.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if want := "rh:secret@tcp(db.internal:3306)/researchhub?charset=utf8mb4&parseTime=True&loc=Local"; cfg.DSN != want {
		t.Errorf("DSN = %q, want %q", cfg.DSN, want)
	}
	if want := "redis://:hushhush@cache.internal:6379/0"; cfg.RedisURL != want {
		t.Errorf("RedisURL = %q, want %q", cfg.RedisURL, want)
	}
	if cfg.Extraction.MinAcceptLength != 300 {
		t.Errorf("MinAcceptLength = %d, want the overridden 300", cfg.Extraction.MinAcceptLength)
	}
	if cfg.Extraction.FooterMaxLength != DefaultFooterMaxLength {
		t.Errorf("FooterMaxLength = %d, want default %d", cfg.Extraction.FooterMaxLength, DefaultFooterMaxLength)
	}
}

func TestBackendLookup(t *testing.T) {
	ai := AIConfig{
		DefaultBackend: "openai",
		Backends: []AIBackend{
			{ID: "openai", Enabled: true, SupportsVision: true},
			{ID: "free", Enabled: true, CooldownSeconds: 20},
			{ID: "disabled", Enabled: false},
		},
	}

	if b := ai.Backend(""); b == nil || b.ID != "openai" {
		t.Errorf("Backend(\"\") = %v, want the default", b)
	}
	if b := ai.Backend("free"); b == nil || b.CooldownSeconds != 20 {
		t.Errorf("Backend(free) = %v", b)
	}
	if b := ai.Backend("disabled"); b != nil {
		t.Error("disabled backends must not be returned")
	}
	if b := ai.Backend("missing"); b != nil {
		t.Error("unknown backend id must return nil")
	}
	if b := ai.VisionBackend(); b == nil || b.ID != "openai" {
		t.Errorf("VisionBackend = %v", b)
	}
}

func TestBackendEnvKey(t *testing.T) {
	if got := backendEnvKey("free-tier"); got != "RH_AI_KEY_FREE_TIER" {
		t.Errorf("backendEnvKey = %q", got)
	}
	if got := backendEnvKey(""); got != "" {
		t.Errorf("backendEnvKey(\"\") = %q", got)
	}
}
