package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(ConfigPath(dir), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"model": {"model": "gpt-4o"}}`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Config.Model.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("unexpected default base URL: %s", cfg.Config.Model.BaseURL)
	}
	if cfg.Config.Model.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("unexpected default apiKeyEnv: %s", cfg.Config.Model.APIKeyEnv)
	}
	if cfg.Config.Model.MaxTokens != 4096 {
		t.Errorf("unexpected default maxTokens: %d", cfg.Config.Model.MaxTokens)
	}
	if cfg.Config.Browser == nil || !cfg.Config.Browser.Headless {
		t.Error("expected headless browser by default")
	}
	if cfg.Config.Browser.StepTimeout != 10 {
		t.Errorf("unexpected default stepTimeout: %d", cfg.Config.Browser.StepTimeout)
	}
	if cfg.Config.Browser.MaxActionsPerStep != 5 {
		t.Errorf("unexpected default maxActionsPerStep: %d", cfg.Config.Browser.MaxActionsPerStep)
	}
	if cfg.Config.Output.Dir != filepath.Join("tests", "generated") {
		t.Errorf("unexpected default output dir: %s", cfg.Config.Output.Dir)
	}
	if cfg.Config.History == nil || !cfg.Config.History.Enabled {
		t.Error("expected history enabled by default")
	}
	if cfg.Config.Logging == nil || !cfg.Config.Logging.Enabled {
		t.Error("expected logging enabled by default")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !strings.Contains(err.Error(), "featwright init") {
		t.Errorf("expected hint about 'featwright init', got: %v", err)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "{not json")

	_, err := LoadConfig(dir)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadConfig_MissingModel(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"model": {}}`)

	_, err := LoadConfig(dir)
	if err == nil {
		t.Fatal("expected error for missing model")
	}
	if !strings.Contains(err.Error(), "model.model is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"model": {"model": "gpt-4o", "apiKeyEnv": "FEATWRIGHT_TEST_KEY"}}`)
	os.WriteFile(filepath.Join(dir, ".env"), []byte("FEATWRIGHT_TEST_KEY=from-dotenv\n"), 0644)
	t.Setenv("FEATWRIGHT_TEST_KEY", "")
	os.Unsetenv("FEATWRIGHT_TEST_KEY")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	key, err := cfg.Config.APIKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "from-dotenv" {
		t.Errorf("expected key from .env, got '%s'", key)
	}
}

func TestAPIKey_Unset(t *testing.T) {
	cfg := &Config{Model: ModelConfig{APIKeyEnv: "FEATWRIGHT_UNSET_KEY"}}
	os.Unsetenv("FEATWRIGHT_UNSET_KEY")

	_, err := cfg.APIKey()
	if err == nil {
		t.Fatal("expected error for unset key")
	}
	if !strings.Contains(err.Error(), "FEATWRIGHT_UNSET_KEY") {
		t.Errorf("error should name the env var, got: %v", err)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	dir := t.TempDir()

	if err := WriteDefaultConfig(dir, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("written config should load: %v", err)
	}
	if cfg.Config.Model.Model != "gpt-4o" {
		t.Errorf("expected default model 'gpt-4o', got '%s'", cfg.Config.Model.Model)
	}
}

func TestWriteDefaultConfig_CustomModel(t *testing.T) {
	dir := t.TempDir()

	if err := WriteDefaultConfig(dir, "claude-sonnet-4-20250514"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("written config should load: %v", err)
	}
	if cfg.Config.Model.Model != "claude-sonnet-4-20250514" {
		t.Errorf("unexpected model: %s", cfg.Config.Model.Model)
	}
}

func TestFindGitRoot(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, ".git"), 0755)
	nested := filepath.Join(dir, "a", "b")
	os.MkdirAll(nested, 0755)

	if got := findGitRoot(nested); got != dir {
		t.Errorf("expected %s, got %s", dir, got)
	}

	// No .git anywhere: falls back to the starting directory
	plain := t.TempDir()
	if got := findGitRoot(plain); got != plain {
		t.Errorf("expected fallback to %s, got %s", plain, got)
	}
}
