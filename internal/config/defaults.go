package config

// qualityPresets maps each provider+quality combination to a model choice.
var qualityPresets = map[ProviderType]map[QualityTier]string{
	ProviderAnthropic: {
		QualityLite:   "claude-haiku-4-5-20251001",
		QualityNormal: "claude-sonnet-4-5-20250929",
		QualityMax:    "claude-opus-4-6",
	},
	ProviderOpenAI: {
		QualityLite:   "gpt-4o-mini",
		QualityNormal: "gpt-4o",
		QualityMax:    "gpt-4",
	},
	ProviderOllama: {
		QualityLite:   "llama3",
		QualityNormal: "llama3",
		QualityMax:    "llama3:70b",
	},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:     ProviderAnthropic,
		Model:        "claude-sonnet-4-5-20250929",
		Quality:      QualityNormal,
		DataDir:      ".reqpilot",
		Port:         8990,
		MaxRounds:    8,
		RateLimitRPM: 30,
		Memory: MemoryConfig{
			Enabled:        false,
			EmbeddingModel: "text-embedding-3-small",
		},
	}
}

// GetPreset returns the model for the given provider and tier, falling back
// to the Normal Anthropic preset for unknown combinations.
func GetPreset(provider ProviderType, tier QualityTier) string {
	if tiers, ok := qualityPresets[provider]; ok {
		if model, ok := tiers[tier]; ok {
			return model
		}
	}
	return qualityPresets[ProviderAnthropic][QualityNormal]
}
