package config

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = ".streamly.yml"

// defaultModels is the model suggested for each provider.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:    "gpt-3.5-turbo",
	ProviderLangChain: "gpt-3.5-turbo",
	ProviderAnthropic: "claude-haiku-4-5-20251001",
	ProviderOllama:    "llama3",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		Model:          defaultModels[ProviderOpenAI],
		Temperature:    0,
		TimeoutSeconds: 60,
		UpdatesFile:    "data/streamlit_updates.json",
		Assistant: AssistantConfig{
			Name:          "Streamly",
			Framework:     "Streamlit",
			Version:       "1.28",
			DisplayWindow: 20,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: ".streamly/usage.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultModel returns the suggested model for a provider, falling back to
// the OpenAI default.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderOpenAI]
}
