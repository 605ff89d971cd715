package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Provider)
	}
	if cfg.Model != "gpt-3.5-turbo" {
		t.Errorf("expected default model gpt-3.5-turbo, got %q", cfg.Model)
	}
	if cfg.Temperature != 0 {
		t.Errorf("expected default temperature 0, got %f", cfg.Temperature)
	}
	if cfg.Assistant.DisplayWindow != 20 {
		t.Errorf("expected display window 20, got %d", cfg.Assistant.DisplayWindow)
	}
	if cfg.Assistant.MaxContextTurns != 0 {
		t.Errorf("expected unbounded context by default, got %d", cfg.Assistant.MaxContextTurns)
	}
	if cfg.Timeout().Seconds() != 60 {
		t.Errorf("expected 60s timeout, got %v", cfg.Timeout())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", ".streamly.yml")

	original := DefaultConfig()
	original.Provider = ProviderAnthropic
	original.Model = "claude-haiku-4-5-20251001"
	original.Temperature = 0.3
	original.Assistant.KnowledgeCutoff = "2023-10"
	original.Assistant.MaxContextTurns = 12
	original.Server.AllowAllOrigins = true
	original.Storage.Disabled = true

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Temperature != original.Temperature {
		t.Errorf("temperature: got %f, want %f", loaded.Temperature, original.Temperature)
	}
	if loaded.Assistant != original.Assistant {
		t.Errorf("assistant: got %+v, want %+v", loaded.Assistant, original.Assistant)
	}
	if !loaded.Server.AllowAllOrigins || !loaded.Storage.Disabled {
		t.Errorf("booleans not round-tripped: %+v %+v", loaded.Server, loaded.Storage)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("STREAMLY_PROVIDER", "ollama")
	t.Setenv("STREAMLY_MAX_TOKENS", "512")
	t.Setenv("STREAMLY_SERVER__PORT", "9090")
	t.Setenv("STREAMLY_ASSISTANT__MAX_CONTEXT_TURNS", "6")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderOllama {
		t.Errorf("provider override failed: got %q", loaded.Provider)
	}
	if loaded.MaxTokens != 512 {
		t.Errorf("max_tokens override failed: got %d", loaded.MaxTokens)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("nested override failed: got port %d", loaded.Server.Port)
	}
	if loaded.Assistant.MaxContextTurns != 6 {
		t.Errorf("nested override failed: got %d", loaded.Assistant.MaxContextTurns)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"STREAMLY_MODEL":                     "model",
		"STREAMLY_BASE_URL":                  "base_url",
		"STREAMLY_LOG__LEVEL":                "log.level",
		"STREAMLY_STORAGE__DISABLED":         "storage.disabled",
		"STREAMLY_ASSISTANT__NAME":           "assistant.name",
		"STREAMLY_SERVER__ALLOW_ALL_ORIGINS": "server.allow_all_origins",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"invalid provider", func(c *Config) { c.Provider = "google" }},
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"empty model", func(c *Config) { c.Model = "" }},
		{"bad base url", func(c *Config) { c.BaseURL = "not a url" }},
		{"temperature too high", func(c *Config) { c.Temperature = 3 }},
		{"negative max tokens", func(c *Config) { c.MaxTokens = -1 }},
		{"negative rpm", func(c *Config) { c.RPM = -1 }},
		{"empty updates file", func(c *Config) { c.UpdatesFile = "" }},
		{"empty assistant name", func(c *Config) { c.Assistant.Name = "" }},
		{"negative context turns", func(c *Config) { c.Assistant.MaxContextTurns = -2 }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"storage path missing", func(c *Config) { c.Storage.Path = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Errorf("expected wrapped validation errors, got %T", err)
			}
		})
	}
}

func TestValidateAllowsDisabledStorageWithoutPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage = StorageConfig{Disabled: true}
	cfg.BaseURL = "https://openrouter.ai/api/v1"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultModel(t *testing.T) {
	if DefaultModel(ProviderOllama) != "llama3" {
		t.Errorf("unexpected ollama default %q", DefaultModel(ProviderOllama))
	}
	if DefaultModel("unknown") != "gpt-3.5-turbo" {
		t.Errorf("unexpected fallback %q", DefaultModel("unknown"))
	}
}

func TestValidatePort(t *testing.T) {
	for _, ok := range []string{"0", "8080", "65535"} {
		if err := validatePort(ok); err != nil {
			t.Errorf("validatePort(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "http", "-1", "65536"} {
		if err := validatePort(bad); err == nil {
			t.Errorf("validatePort(%q) should fail", bad)
		}
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderLangChain, "OPENAI_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		if got := APIKeyEnvVar(tt.provider); got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}
