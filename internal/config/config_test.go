package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
openai:
  api_key: " sk-test "
  model: gpt-4.1
log:
  mode: production
  file: ""
database:
  path: /tmp/decks.db
server:
  addr: 127.0.0.1:9000
  allowed_origins: [http://localhost:5173]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := Default()
	want.OpenAI = OpenAIConfig{APIKey: "sk-test", Model: "gpt-4.1"}
	want.Log = LogConfig{Mode: "production"}
	want.Database.Path = "/tmp/decks.db"
	want.Server = ServerConfig{Addr: "127.0.0.1:9000", AllowedOrigins: []string{"http://localhost:5173"}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLegacyKey(t *testing.T) {
	cfg, err := Parse([]byte(`chatgpt_api_key: sk-legacy`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-legacy" {
		t.Fatalf("api key = %q", cfg.OpenAI.APIKey)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("openai:\n  apikey: x\n")); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if _, err := Parse([]byte("openai: [")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Database.Path != defaultDBPath {
		t.Fatalf("db path = %q", cfg.Database.Path)
	}

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("openai:\n  api_key: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "from-env")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpenAI.APIKey != "from-env" {
		t.Fatalf("env override not applied: %q", cfg.OpenAI.APIKey)
	}
}
