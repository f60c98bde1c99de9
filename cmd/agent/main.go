package main

import (
	"fmt"
	"os"

	"github.com/chris/aide/config"
	"github.com/chris/aide/internal/agent"
	"github.com/chris/aide/internal/db"
	"github.com/chris/aide/internal/llm"
	"github.com/chris/aide/internal/logger"
	"github.com/chris/aide/internal/tools"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	if err := rootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the pieces every command shares.
type app struct {
	cfg   *config.Config
	db    *db.DB
	agent *agent.Agent
}

func openStore(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func newApp(cfg *config.Config) (*app, error) {
	database, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:  cfg.LLMProvider,
		APIKey:    providerKey(cfg),
		AuthToken: cfg.AnthropicToken,
		Model:     cfg.LLMModel,
		BaseURL:   providerBaseURL(cfg),
	})
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	ag := agent.New(client, tools.New(database, nil))
	ag.MaxRounds = cfg.MaxToolRounds
	ag.ModelTimeout = cfg.ModelTimeout

	return &app{cfg: cfg, db: database, agent: ag}, nil
}

func (a *app) Close() {
	a.db.Close()
}

func providerKey(cfg *config.Config) string {
	switch cfg.LLMProvider {
	case "openai":
		return cfg.OpenAIKey
	case "groq":
		return cfg.GroqKey
	default:
		return cfg.AnthropicKey
	}
}

func providerBaseURL(cfg *config.Config) string {
	if cfg.LLMProvider == "ollama" {
		return cfg.OllamaBaseURL
	}
	return ""
}
