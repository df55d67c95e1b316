package config

// QualityTier trades answer quality against speed and cost.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
)

// Config is the top-level reqpilot configuration, corresponding to
// .reqpilot.yml.
type Config struct {
	Provider     ProviderType `yaml:"provider" koanf:"provider"`
	Model        string       `yaml:"model" koanf:"model"`
	Quality      QualityTier  `yaml:"quality" koanf:"quality"`
	DataDir      string       `yaml:"data_dir" koanf:"data_dir"`
	Port         int          `yaml:"port" koanf:"port"`
	MaxRounds    int          `yaml:"max_rounds" koanf:"max_rounds"`
	RateLimitRPM int          `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	Memory       MemoryConfig `yaml:"memory" koanf:"memory"`
}

// MemoryConfig controls the digest memory of confirmed sessions.
type MemoryConfig struct {
	Enabled        bool   `yaml:"enabled" koanf:"enabled"`
	EmbeddingModel string `yaml:"embedding_model" koanf:"embedding_model"`
}
