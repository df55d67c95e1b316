package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/reqpilot/internal/config"
	"github.com/ziadkadry99/reqpilot/internal/db"
	"github.com/ziadkadry99/reqpilot/internal/llm"
	"github.com/ziadkadry99/reqpilot/internal/memory"
	"github.com/ziadkadry99/reqpilot/internal/session"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `reqpilot init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w\nRun `reqpilot init` to regenerate it", err)
	}
	return cfg, nil
}

// createProviderFromConfig creates the LLM provider, rate limited per config.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
	}
	return provider, nil
}

// buildEngine opens the database and wires the session engine.
func buildEngine(cfg *config.Config, provider llm.Provider) (*session.Engine, *db.DB, error) {
	dbPath := filepath.Join(cfg.DataDir, "reqpilot.db")
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	engine := session.NewEngine(session.NewStore(database), provider, cfg.Model)
	engine.SetMaxRounds(cfg.MaxRounds)
	return engine, database, nil
}

// setupMemory creates and loads the digest memory when enabled. Returns nil
// with no error when memory is off.
func setupMemory(cfg *config.Config) (*memory.Store, error) {
	if !cfg.Memory.Enabled {
		return nil, nil
	}

	apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for digest memory embeddings")
	}

	store, err := memory.NewStore(memory.NewOpenAIEmbedder(apiKey, cfg.Memory.EmbeddingModel))
	if err != nil {
		return nil, fmt.Errorf("creating digest memory: %w", err)
	}

	if err := store.Load(context.Background(), cfg.DataDir); err != nil {
		// A missing snapshot is normal on first run.
		fmt.Fprintf(os.Stderr, "Warning: could not load digest memory from %s: %v\n", cfg.DataDir, err)
	}
	return store, nil
}
