package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/internal/stringutils"
)

const duckDuckGoEndpoint = "https://api.duckduckgo.com/"

type (
	// DuckDuckGoProvider queries the free instant answer API.
	DuckDuckGoProvider struct {
		enabled bool
		opts    *options
	}

	duckDuckGoTopic struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	}

	duckDuckGoResponse struct {
		Heading       string            `json:"Heading"`
		Abstract      string            `json:"Abstract"`
		AbstractURL   string            `json:"AbstractURL"`
		Answer        string            `json:"Answer"`
		AnswerURL     string            `json:"AnswerURL"`
		RelatedTopics []duckDuckGoTopic `json:"RelatedTopics"`
	}
)

var _ Provider = (*DuckDuckGoProvider)(nil)

func NewDuckDuckGoProvider(enabled bool, opts ...Option) *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		enabled: enabled,
		opts:    newOptions(duckDuckGoEndpoint, opts),
	}
}

func (p *DuckDuckGoProvider) Name() string { return ProviderDuckDuckGo }

func (p *DuckDuckGoProvider) IsAvailable() bool { return p.enabled }

func (p *DuckDuckGoProvider) Describe() Info {
	return Info{
		Name:         ProviderDuckDuckGo,
		Cost:         "free",
		RateLimits:   "moderate",
		Capabilities: []string{"web_search", "instant_answers", "related_topics"},
	}
}

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	maxResults = clampMaxResults(maxResults)

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", p.opts.endpoint, params.Encode()), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request")
	}

	var data duckDuckGoResponse
	if err := doJSON(ctx, p.opts.client, req, &data); err != nil {
		return nil, err
	}

	now := p.opts.now()
	var results []Result
	if data.Abstract != "" {
		title := data.Heading
		if title == "" {
			title = query
		}
		results = append(results, Result{
			Title:     title,
			URL:       data.AbstractURL,
			Snippet:   data.Abstract,
			Source:    ProviderDuckDuckGo,
			Timestamp: now,
			Metadata:  map[string]any{"provider": ProviderDuckDuckGo, "type": "abstract"},
		})
	}

	for _, topic := range data.RelatedTopics {
		if len(results) >= maxResults {
			break
		}
		// grouped topics carry no Text at the top level
		if topic.Text == "" {
			continue
		}
		results = append(results, Result{
			Title:     stringutils.Truncate(topic.Text, 100, ""),
			URL:       topic.FirstURL,
			Snippet:   topic.Text,
			Source:    ProviderDuckDuckGo,
			Timestamp: now,
			Metadata:  map[string]any{"provider": ProviderDuckDuckGo, "type": "related_topic"},
		})
	}

	if len(results) == 0 && data.Answer != "" {
		results = append(results, Result{
			Title:     fmt.Sprintf("Answer: %s", query),
			URL:       data.AnswerURL,
			Snippet:   data.Answer,
			Source:    ProviderDuckDuckGo,
			Timestamp: now,
			Metadata:  map[string]any{"provider": ProviderDuckDuckGo, "type": "answer"},
		})
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results, nil
}
