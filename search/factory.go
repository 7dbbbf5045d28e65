package search

import (
	"log/slog"

	"github.com/soontechgroup/ai-agents-sub001/config"
)

// NewChainFromConfig registers the closed provider set described by conf.
func NewChainFromConfig(conf *config.SearchConfig, logger *slog.Logger, opts ...Option) *Chain {
	providers := []Provider{
		NewSerperProvider(conf.SerperAPIKey, opts...),
		NewSerpAPIProvider(conf.SerpAPIKey, opts...),
		NewDuckDuckGoProvider(conf.DuckDuckGoEnabled, opts...),
		NewRSSProvider(conf.RSSFeeds, logger, opts...),
		NewMockProvider(opts...),
	}
	return NewChain(providers, conf.PreferredProvider, conf.ProviderTimeout, logger)
}
