package search

import (
	"context"
	"time"
)

const (
	ProviderSerper     = "serper"
	ProviderSerpAPI    = "serpapi"
	ProviderDuckDuckGo = "duckduckgo"
	ProviderRSS        = "rss"
	ProviderMock       = "mock"
)

type (
	// Result is a standardized external search hit.
	Result struct {
		Title     string         `json:"title"`
		URL       string         `json:"url"`
		Snippet   string         `json:"snippet"`
		Source    string         `json:"source"`
		Timestamp time.Time      `json:"timestamp"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}

	// Info is static capability metadata of a provider.
	Info struct {
		Name             string   `json:"name"`
		Cost             string   `json:"cost"`
		RateLimits       string   `json:"rate_limits"`
		APIKeyRequired   bool     `json:"api_key_required"`
		APIKeyConfigured bool     `json:"api_key_configured"`
		Terminal         bool     `json:"terminal,omitempty"`
		Capabilities     []string `json:"capabilities"`
	}

	Provider interface {
		Name() string
		Search(ctx context.Context, query string, maxResults int) ([]Result, error)
		// IsAvailable checks configuration only and never touches the network.
		IsAvailable() bool
		Describe() Info
	}
)

// clampMaxResults maps a non-positive limit to DefaultMaxResults.
func clampMaxResults(maxResults int) int {
	if maxResults <= 0 {
		return DefaultMaxResults
	}
	return maxResults
}
