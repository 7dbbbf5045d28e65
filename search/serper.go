package search

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/soontechgroup/ai-agents-sub001/errors"
)

const serperEndpoint = "https://google.serper.dev/search"

type (
	SerperProvider struct {
		apiKey string
		opts   *options
	}

	serperResponse struct {
		Organic []struct {
			Title    string `json:"title"`
			Link     string `json:"link"`
			Snippet  string `json:"snippet"`
			Position int    `json:"position"`
			Date     string `json:"date"`
		} `json:"organic"`
		KnowledgeGraph *struct {
			Title       string `json:"title"`
			Website     string `json:"website"`
			Description string `json:"description"`
		} `json:"knowledgeGraph"`
	}
)

var _ Provider = (*SerperProvider)(nil)

func NewSerperProvider(apiKey string, opts ...Option) *SerperProvider {
	return &SerperProvider{
		apiKey: apiKey,
		opts:   newOptions(serperEndpoint, opts),
	}
}

func (p *SerperProvider) Name() string { return ProviderSerper }

func (p *SerperProvider) IsAvailable() bool { return p.apiKey != "" }

func (p *SerperProvider) Describe() Info {
	return Info{
		Name:             ProviderSerper,
		Cost:             "freemium",
		RateLimits:       "2500 free searches/month",
		APIKeyRequired:   true,
		APIKeyConfigured: p.IsAvailable(),
		Capabilities:     []string{"web_search", "knowledge_graph", "news_search"},
	}
}

func (p *SerperProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	maxResults = clampMaxResults(maxResults)

	if !p.IsAvailable() {
		return nil, errors.Wrapf(errors.ErrConfiguration, "serper api key is not set")
	}

	body, err := json.Marshal(map[string]any{"q": query, "num": maxResults})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request")
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var data serperResponse
	if err := doJSON(ctx, p.opts.client, req, &data); err != nil {
		return nil, err
	}

	now := p.opts.now()
	results := make([]Result, 0, maxResults)
	for _, item := range data.Organic {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{
			Title:     item.Title,
			URL:       item.Link,
			Snippet:   item.Snippet,
			Source:    ProviderSerper,
			Timestamp: now,
			Metadata: map[string]any{
				"provider": ProviderSerper,
				"position": item.Position,
				"date":     item.Date,
			},
		})
	}

	if kg := data.KnowledgeGraph; kg != nil && len(results) < maxResults {
		title := kg.Title
		if title == "" {
			title = query
		}
		results = append(results, Result{
			Title:     title,
			URL:       kg.Website,
			Snippet:   kg.Description,
			Source:    ProviderSerper,
			Timestamp: now,
			Metadata:  map[string]any{"provider": ProviderSerper, "type": "knowledge_graph"},
		})
	}

	return results, nil
}
