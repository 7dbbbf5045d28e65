package config

import (
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

const (
	LLMProviderOpenAI    = "openai"
	LLMProviderAnthropic = "anthropic"
)

type LLMConfig struct {
	// Provider backs fact and knowledge extraction: openai or anthropic
	// Default: openai
	Provider string `yaml:"provider" env:"LLM_PROVIDER"`

	OpenAIAPIKey    string `yaml:"openaiApiKey" env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `yaml:"anthropicApiKey" env:"ANTHROPIC_API_KEY"`

	// FactModel is the model used for extraction calls
	// Default: gpt-4o-mini (openai), claude-3-5-haiku-latest (anthropic)
	FactModel string `yaml:"factModel" env:"FACT_MODEL"`

	// FactMaxTokens caps the extraction completion
	// Default: 300
	FactMaxTokens int64 `yaml:"factMaxTokens" env:"FACT_MAX_TOKENS"`

	// FactTemperature keeps extraction close to deterministic
	// Default: 0.1
	FactTemperature float64 `yaml:"factTemperature" env:"FACT_TEMPERATURE"`
}

func NewLLMConfig() *LLMConfig {
	return &LLMConfig{
		Provider:        LLMProviderOpenAI,
		FactMaxTokens:   300,
		FactTemperature: 0.1,
	}
}

// Model returns the extraction model for the configured provider.
func (c *LLMConfig) Model() string {
	if c.FactModel != "" {
		return c.FactModel
	}
	if c.Provider == LLMProviderAnthropic {
		return "claude-3-5-haiku-latest"
	}
	return "gpt-4o-mini"
}

// Available reports whether the configured provider has credentials.
func (c *LLMConfig) Available() bool {
	switch c.Provider {
	case LLMProviderAnthropic:
		return c.AnthropicAPIKey != ""
	default:
		return c.OpenAIAPIKey != ""
	}
}

func (c *LLMConfig) Validate() error {
	switch c.Provider {
	case LLMProviderOpenAI, LLMProviderAnthropic:
	default:
		return errors.Wrapf(errors.ErrInvalidConfig, "unknown llm provider %q", c.Provider)
	}
	if c.FactMaxTokens <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "fact max tokens must be positive")
	}
	return nil
}
