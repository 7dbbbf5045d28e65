package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/soontechgroup/ai-agents-sub001/errors"
)

const serpAPIEndpoint = "https://serpapi.com/search.json"

type (
	SerpAPIProvider struct {
		apiKey string
		opts   *options
	}

	serpAPIResponse struct {
		Error          string `json:"error"`
		OrganicResults []struct {
			Title    string `json:"title"`
			Link     string `json:"link"`
			Snippet  string `json:"snippet"`
			Position int    `json:"position"`
			Date     string `json:"date"`
		} `json:"organic_results"`
		AnswerBox *struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Answer  string `json:"answer"`
			Snippet string `json:"snippet"`
		} `json:"answer_box"`
	}
)

var _ Provider = (*SerpAPIProvider)(nil)

func NewSerpAPIProvider(apiKey string, opts ...Option) *SerpAPIProvider {
	return &SerpAPIProvider{
		apiKey: apiKey,
		opts:   newOptions(serpAPIEndpoint, opts),
	}
}

func (p *SerpAPIProvider) Name() string { return ProviderSerpAPI }

func (p *SerpAPIProvider) IsAvailable() bool { return p.apiKey != "" }

func (p *SerpAPIProvider) Describe() Info {
	return Info{
		Name:             ProviderSerpAPI,
		Cost:             "paid",
		RateLimits:       "100 free searches/month",
		APIKeyRequired:   true,
		APIKeyConfigured: p.IsAvailable(),
		Capabilities:     []string{"web_search", "answer_box"},
	}
}

func (p *SerpAPIProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	maxResults = clampMaxResults(maxResults)

	if !p.IsAvailable() {
		return nil, errors.Wrapf(errors.ErrConfiguration, "serpapi api key is not set")
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("api_key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", p.opts.endpoint, params.Encode()), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request")
	}

	var data serpAPIResponse
	if err := doJSON(ctx, p.opts.client, req, &data); err != nil {
		return nil, err
	}
	if data.Error != "" {
		return nil, errors.Errorf("serpapi error: %s", data.Error)
	}

	now := p.opts.now()
	results := make([]Result, 0, maxResults)
	if ab := data.AnswerBox; ab != nil && (ab.Answer != "" || ab.Snippet != "") {
		snippet := ab.Answer
		if snippet == "" {
			snippet = ab.Snippet
		}
		results = append(results, Result{
			Title:     fmt.Sprintf("Answer: %s", query),
			URL:       ab.Link,
			Snippet:   snippet,
			Source:    ProviderSerpAPI,
			Timestamp: now,
			Metadata:  map[string]any{"provider": ProviderSerpAPI, "type": "answer_box"},
		})
	}

	for _, item := range data.OrganicResults {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{
			Title:     item.Title,
			URL:       item.Link,
			Snippet:   item.Snippet,
			Source:    ProviderSerpAPI,
			Timestamp: now,
			Metadata: map[string]any{
				"provider": ProviderSerpAPI,
				"position": item.Position,
				"date":     item.Date,
			},
		})
	}

	return results, nil
}
