package config

import (
	"time"

	"github.com/soontechgroup/ai-agents-sub001/errors"
)

type SearchConfig struct {
	// PreferredProvider moves a provider to the front of the fallback chain.
	// "auto" keeps the computed order.
	// Default: auto
	PreferredProvider string `yaml:"provider" env:"SEARCH_PROVIDER"`

	// SerperAPIKey enables the Serper (google.serper.dev) provider
	SerperAPIKey string `yaml:"serperApiKey" env:"SERPER_API_KEY"`

	// SerpAPIKey enables the SerpAPI provider
	SerpAPIKey string `yaml:"serpApiKey" env:"SERPAPI_API_KEY"`

	// DuckDuckGoEnabled controls the free DuckDuckGo instant answer provider
	// Default: true
	DuckDuckGoEnabled bool `yaml:"duckduckgoEnabled" env:"SEARCH_DUCKDUCKGO_ENABLED"`

	// RSSFeeds lists feed URLs searched by the RSS provider. Empty disables it.
	RSSFeeds []string `yaml:"rssFeeds" env:"SEARCH_RSS_FEEDS"`

	// ProviderTimeout bounds a single provider call
	// Default: 10s
	ProviderTimeout time.Duration `yaml:"providerTimeout" env:"SEARCH_PROVIDER_TIMEOUT"`
}

func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		PreferredProvider: "auto",
		DuckDuckGoEnabled: true,
		ProviderTimeout:   10 * time.Second,
	}
}

func (c *SearchConfig) Validate() error {
	if c.ProviderTimeout <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "search provider timeout must be positive")
	}
	return nil
}
