package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"voice-chat/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "from-env")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr: got %q", cfg.Server.Addr)
	}
	if cfg.Conversation.Provider != "gemini" || cfg.Recognition.Provider != "google" || cfg.Synthesis.Provider != "gtts" {
		t.Errorf("unexpected default providers %+v %+v %+v", cfg.Conversation, cfg.Recognition, cfg.Synthesis)
	}
	if cfg.Gemini.APIKey != "from-env" {
		t.Errorf("expected GOOGLE_API_KEY fallback, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Synthesis.Language != "en" || cfg.Recognition.Language != "en-US" {
		t.Errorf("unexpected languages %q %q", cfg.Synthesis.Language, cfg.Recognition.Language)
	}
	if cfg.Conversation.Timeout != "30s" {
		t.Errorf("expected 30s timeout, got %q", cfg.Conversation.Timeout)
	}
}

func TestLoad_MissingKeyIsNotValidated(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Gemini.APIKey != "" {
		t.Errorf("expected empty key, got %q", cfg.Gemini.APIKey)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("VC_TEST_OPENAI_KEY", "sk-test")

	path := writeConfig(t, `
server:
  addr: ":9000"
  about_url: "https://example.com"
conversation:
  provider: openai
openai:
  api_key: ${VC_TEST_OPENAI_KEY}
gemini:
  api_key: explicit
log:
  level: debug
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Addr != ":9000" || cfg.Server.AboutURL != "https://example.com" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Errorf("expected expanded key, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.Gemini.APIKey != "explicit" {
		t.Errorf("explicit key should win over env, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoad_InvalidProvider(t *testing.T) {
	path := writeConfig(t, "synthesis:\n  provider: espeak\n")

	if _, err := config.Load(path); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")

	if _, err := config.Load(path); err == nil {
		t.Error("expected parse error")
	}
}
