package llm

import (
	"fmt"
	"os"
	"time"
)

// Options selects and configures a backend.
type Options struct {
	Provider string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	// RPM caps requests per minute; zero disables throttling.
	RPM int
}

// NewProvider creates a new LLM provider based on opts.Provider.
// Supported provider types: "openai", "langchain", "anthropic", "ollama".
func NewProvider(opts Options) (Provider, error) {
	p, err := newBackend(opts)
	if err != nil {
		return nil, err
	}
	if opts.RPM > 0 {
		return NewRateLimitedProvider(p, opts.RPM), nil
	}
	return p, nil
}

func newBackend(opts Options) (Provider, error) {
	switch opts.Provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, opts.Model, opts.BaseURL, opts.Timeout), nil

	case "langchain":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewLangChainProvider(apiKey, opts.Model, opts.BaseURL, opts.Timeout)

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		return NewAnthropicProvider(apiKey, opts.Model, opts.BaseURL, opts.Timeout), nil

	case "ollama":
		host := opts.BaseURL
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		return NewOllamaProvider(host, opts.Model, opts.Timeout), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", opts.Provider)
	}
}
