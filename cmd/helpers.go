package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/samber/do"

	"github.com/ziadkadry99/streamly/internal/assistant"
	"github.com/ziadkadry99/streamly/internal/catalog"
	"github.com/ziadkadry99/streamly/internal/config"
	"github.com/ziadkadry99/streamly/internal/conversation"
	"github.com/ziadkadry99/streamly/internal/db"
	"github.com/ziadkadry99/streamly/internal/llm"
	"github.com/ziadkadry99/streamly/internal/logging"
	"github.com/ziadkadry99/streamly/internal/usage"
)

// logSink closes the log file when the injector shuts down.
type logSink struct {
	io.Closer
}

func (l logSink) Shutdown() error {
	return l.Close()
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `streamly init` to create a config file", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads config, starts logging and returns an injector with every
// service registered. Callers must Shutdown the injector.
func setup() (*do.Injector, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	closer, err := logging.Init(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}

	di := do.New()
	do.ProvideValue(di, logSink{closer})
	do.ProvideValue(di, cfg)
	do.Provide(di, provideDocument)
	do.Provide(di, provideProvider)
	if !cfg.Storage.Disabled {
		do.Provide(di, provideUsageStore)
	}
	do.Provide(di, provideResponder)
	do.Provide(di, provideManager)

	return di, nil
}

func provideDocument(i *do.Injector) (*catalog.Document, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return catalog.Load(cfg.UpdatesFile), nil
}

// provideProvider builds the configured LLM backend. A missing credential
// is not fatal: the assistant still serves direct answers.
func provideProvider(i *do.Injector) (llm.Provider, error) {
	cfg := do.MustInvoke[*config.Config](i)

	provider, err := llm.NewProvider(llm.Options{
		Provider: string(cfg.Provider),
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout(),
		RPM:      cfg.RPM,
	})
	if err != nil {
		slog.Warn("LLM provider unavailable, only direct answers will work",
			"provider", cfg.Provider,
			"error", err)
		return nil, nil
	}

	slog.Debug("LLM provider ready",
		"provider", provider.Name(),
		"model", cfg.Model)
	return provider, nil
}

func provideUsageStore(i *do.Injector) (*usage.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)

	database, err := db.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("opening usage ledger: %w", err)
	}
	return usage.NewStore(database), nil
}

func provideResponder(i *do.Injector) (*assistant.Responder, error) {
	cfg := do.MustInvoke[*config.Config](i)
	provider := do.MustInvoke[llm.Provider](i)

	return assistant.NewResponder(provider, assistant.Options{
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		MaxTokens:       cfg.MaxTokens,
		MaxContextTurns: cfg.Assistant.MaxContextTurns,
	}), nil
}

func provideManager(i *do.Injector) (*assistant.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	doc := do.MustInvoke[*catalog.Document](i)
	responder := do.MustInvoke[*assistant.Responder](i)

	store, err := usageStore(i)
	if err != nil {
		return nil, err
	}

	var recorder assistant.Recorder
	if store != nil {
		recorder = store
	}

	return assistant.NewManager(responder, doc, persona(cfg), recorder), nil
}

// usageStore returns the ledger, or nil when storage is disabled.
func usageStore(i *do.Injector) (*usage.Store, error) {
	if do.MustInvoke[*config.Config](i).Storage.Disabled {
		return nil, nil
	}
	return do.Invoke[*usage.Store](i)
}

func persona(cfg *config.Config) conversation.Preamble {
	return conversation.Preamble{
		Name:            cfg.Assistant.Name,
		Framework:       cfg.Assistant.Framework,
		Version:         cfg.Assistant.Version,
		KnowledgeCutoff: cfg.Assistant.KnowledgeCutoff,
		UpdatesSource:   cfg.UpdatesFile,
	}
}

// shutdown stops every service, logging rather than returning failures.
func shutdown(di *do.Injector) {
	if err := di.Shutdown(); err != nil {
		slog.Warn("Shutdown incomplete", "error", err)
	}
}
