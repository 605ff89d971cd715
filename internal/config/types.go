package config

import "time"

// ProviderType identifies an LLM backend.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderLangChain ProviderType = "langchain"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// Config is the top-level streamly configuration, corresponding to .streamly.yml.
type Config struct {
	Provider       ProviderType    `yaml:"provider" koanf:"provider" validate:"required,oneof=openai langchain anthropic ollama"`
	Model          string          `yaml:"model" koanf:"model" validate:"required"`
	BaseURL        string          `yaml:"base_url,omitempty" koanf:"base_url" validate:"omitempty,url"`
	Temperature    float64         `yaml:"temperature" koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens      int             `yaml:"max_tokens" koanf:"max_tokens" validate:"gte=0"`
	TimeoutSeconds int             `yaml:"timeout_seconds" koanf:"timeout_seconds" validate:"gte=0"`
	RPM            int             `yaml:"rpm" koanf:"rpm" validate:"gte=0"`
	UpdatesFile    string          `yaml:"updates_file" koanf:"updates_file" validate:"required"`
	Assistant      AssistantConfig `yaml:"assistant" koanf:"assistant"`
	Server         ServerConfig    `yaml:"server" koanf:"server"`
	Storage        StorageConfig   `yaml:"storage" koanf:"storage"`
	Log            LogConfig       `yaml:"log" koanf:"log"`
}

// AssistantConfig describes the persona and how much history it sees.
type AssistantConfig struct {
	Name            string `yaml:"name" koanf:"name" validate:"required"`
	Framework       string `yaml:"framework" koanf:"framework" validate:"required"`
	Version         string `yaml:"version" koanf:"version"`
	KnowledgeCutoff string `yaml:"knowledge_cutoff,omitempty" koanf:"knowledge_cutoff"`
	// DisplayWindow is how many recent turns chat clients show.
	DisplayWindow int `yaml:"display_window" koanf:"display_window" validate:"gte=0"`
	// MaxContextTurns caps the turns sent to the provider; 0 sends everything.
	MaxContextTurns int `yaml:"max_context_turns" koanf:"max_context_turns" validate:"gte=0"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port" validate:"gte=0,lte=65535"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// StorageConfig locates the usage ledger.
type StorageConfig struct {
	Path     string `yaml:"path" koanf:"path" validate:"required_if=Disabled false"`
	Disabled bool   `yaml:"disabled" koanf:"disabled"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level" validate:"oneof=debug info warn error"`
	// File additionally writes JSON logs to this path when set.
	File string `yaml:"file,omitempty" koanf:"file"`
}

// Timeout returns the provider request timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
