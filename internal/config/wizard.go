package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// providerChoices are offered in this order by the wizard.
var providerChoices = []ProviderType{ProviderOpenAI, ProviderLangChain, ProviderAnthropic, ProviderOllama}

// RunWizard runs an interactive configuration wizard and saves the result
// to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to streamly! Let's configure your assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{
			"openai    — OpenAI API (or any compatible gateway)",
			"langchain — OpenAI through the LangChain adapter",
			"anthropic — Anthropic Messages API",
			"ollama    — local Ollama server",
		},
	}
	providerIdx, _, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = providerChoices[providerIdx]

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: DefaultModel(cfg.Provider),
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Updates document.
	updatesPrompt := promptui.Prompt{
		Label:   "Release notes JSON file",
		Default: cfg.UpdatesFile,
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("path is required")
			}
			return nil
		},
	}
	if cfg.UpdatesFile, err = updatesPrompt.Run(); err != nil {
		return nil, fmt.Errorf("updates file: %w", err)
	}

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port for streamly serve",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Check for API key.
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running streamly chat.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("port must be a number between 0 and 65535")
	}
	return nil
}
