package search

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
)

const (
	DefaultMaxResults = 5
	autoProvider      = "auto"
	probeQuery        = "test search"
)

type (
	// Chain tries its providers in priority order and returns the first
	// non-empty result set. It is safe for concurrent use.
	Chain struct {
		providers map[string]Provider
		timeout   time.Duration
		logger    *slog.Logger

		mu    sync.RWMutex
		order []string
	}

	Stats struct {
		Primary   string          `json:"provider"`
		Available []string        `json:"available_providers"`
		Order     []string        `json:"provider_order"`
		Providers map[string]Info `json:"provider_stats"`
		HasAPIKey bool            `json:"has_api_key"`
	}
)

// NewChain computes the provider order once: an available preferred provider
// first, then credentialed providers, then free ones, then terminal fallbacks.
// A MockProvider is appended when no terminal provider is registered.
func NewChain(providers []Provider, preferred string, timeout time.Duration, logger *slog.Logger) *Chain {
	c := &Chain{
		providers: make(map[string]Provider, len(providers)+1),
		timeout:   timeout,
		logger:    mylog.OrDefault(logger),
	}

	var credentialed, free, terminal []string
	for _, p := range providers {
		name := p.Name()
		if _, dup := c.providers[name]; dup {
			continue
		}
		c.providers[name] = p

		info := p.Describe()
		switch {
		case info.Terminal:
			terminal = append(terminal, name)
		case !p.IsAvailable():
		case info.APIKeyRequired:
			credentialed = append(credentialed, name)
		default:
			free = append(free, name)
		}
	}

	if len(terminal) == 0 {
		mock := NewMockProvider()
		c.providers[mock.Name()] = mock
		terminal = append(terminal, mock.Name())
	}

	c.order = append(append(credentialed, free...), terminal...)
	if preferred != "" && preferred != autoProvider {
		if !c.SetPreferredProvider(preferred) {
			c.logger.Warn("preferred search provider is not available", "provider", preferred)
		}
	}

	c.logger.Debug("search provider order", "order", c.order)

	return c
}

// Order returns a copy of the current provider order.
func (c *Chain) Order() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// SetPreferredProvider moves name to the front of the order. It returns false
// when the provider is unknown or unavailable.
func (c *Chain) SetPreferredProvider(name string) bool {
	p, ok := c.providers[name]
	if !ok || !p.IsAvailable() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = append([]string{name}, lo.Without(c.order, name)...)
	return true
}

// Search runs query through the chain. When provider names an available
// provider it is tried first. An empty slice is returned when every
// attempted provider failed or found nothing; ErrNoProviderAvailable only
// when no provider could be attempted at all.
func (c *Chain) Search(ctx context.Context, query string, maxResults int, provider string) ([]Result, error) {
	maxResults = clampMaxResults(maxResults)

	order := c.Order()
	if provider != "" {
		if p, ok := c.providers[provider]; ok && p.IsAvailable() {
			order = append([]string{provider}, lo.Without(order, provider)...)
		} else {
			c.logger.Warn("requested search provider is not available", "provider", provider)
		}
	}

	attempted := 0
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, errors.WithStack(err)
		}

		p := c.providers[name]
		if !p.IsAvailable() {
			continue
		}
		attempted++

		results, err := c.searchOne(ctx, p, query, maxResults)
		if err != nil {
			c.logger.Warn("search provider failed", "provider", name, "err", errors.NewProviderError(name, err))
			continue
		}
		if len(results) == 0 {
			c.logger.Info("search provider returned no results", "provider", name, "query", query)
			continue
		}

		c.logger.Debug("search provider succeeded", "provider", name, "results", len(results))
		return results, nil
	}

	if attempted == 0 {
		return nil, errors.ErrNoProviderAvailable
	}

	return []Result{}, nil
}

func (c *Chain) searchOne(ctx context.Context, p Provider, query string, maxResults int) ([]Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	results, err := p.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

func (c *Chain) Stats() Stats {
	order := c.Order()
	stats := Stats{
		Order:     order,
		Providers: make(map[string]Info, len(c.providers)),
	}
	if len(order) > 0 {
		stats.Primary = order[0]
	}

	for _, name := range order {
		p := c.providers[name]
		info := p.Describe()
		stats.Providers[name] = info
		if p.IsAvailable() {
			stats.Available = append(stats.Available, name)
		}
		if info.APIKeyConfigured {
			stats.HasAPIKey = true
		}
	}
	for name, p := range c.providers {
		if _, ok := stats.Providers[name]; !ok {
			stats.Providers[name] = p.Describe()
		}
	}

	return stats
}

// TestProviders runs a probe query against every provider and reports which
// of them returned results.
func (c *Chain) TestProviders(ctx context.Context) map[string]bool {
	results := make(map[string]bool, len(c.providers))
	for name, p := range c.providers {
		if !p.IsAvailable() {
			results[name] = false
			continue
		}

		found, err := c.searchOne(ctx, p, probeQuery, 1)
		if err != nil {
			c.logger.Warn("search provider probe failed", "provider", name, "err", err)
		}
		results[name] = err == nil && len(found) > 0
	}
	return results
}
