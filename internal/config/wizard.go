package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// .reqpilot.yml and returns it.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to reqpilot! Let's configure your requirements assistant.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"anthropic", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Quality tier.
	qualityPrompt := promptui.Select{
		Label: "Select quality tier",
		Items: []string{
			"lite   - fast & cheap (haiku / gpt-4o-mini)",
			"normal - balanced (sonnet / gpt-4o)",
			"max    - highest quality (opus / gpt-4)",
		},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	quality := tiers[qualityIdx]

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for the session database",
		Default: ".reqpilot",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Round cap.
	roundsPrompt := promptui.Prompt{
		Label:   "Maximum questioning rounds per session",
		Default: "8",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}
	roundsStr, err := roundsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("max rounds: %w", err)
	}
	maxRounds, _ := strconv.Atoi(roundsStr)

	// 5. Digest memory.
	memoryPrompt := promptui.Select{
		Label: "Remember confirmed sessions for similarity search (needs OPENAI_API_KEY)",
		Items: []string{"no", "yes"},
	}
	memoryIdx, _, err := memoryPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("memory selection: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = GetPreset(provider, quality)
	cfg.Quality = quality
	cfg.DataDir = dataDir
	cfg.MaxRounds = maxRounds
	cfg.Memory.Enabled = memoryIdx == 1

	// Check for API key.
	if envVar := APIKeyEnvVar(provider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running reqpilot server.\n", envVar)
		}
	}

	configPath := ".reqpilot.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
