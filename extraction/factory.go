package extraction

import (
	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

// NewCompleterFromConfig builds the completer for the configured LLM
// provider. It fails with ErrConfiguration when no credential is set.
func NewCompleterFromConfig(conf *config.LLMConfig) (Completer, error) {
	params := CompletionParams{
		Model:       conf.Model(),
		MaxTokens:   conf.FactMaxTokens,
		Temperature: conf.FactTemperature,
	}

	switch conf.Provider {
	case config.LLMProviderAnthropic:
		return NewAnthropicCompleter(conf.AnthropicAPIKey, params)
	case config.LLMProviderOpenAI, "":
		return NewOpenAICompleter(conf.OpenAIAPIKey, params)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "unknown llm provider %q", conf.Provider)
	}
}
