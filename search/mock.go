package search

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider returns deterministic synthetic results. It is always
// available and terminates the fallback chain.
type MockProvider struct {
	opts *options
}

var _ Provider = (*MockProvider)(nil)

func NewMockProvider(opts ...Option) *MockProvider {
	return &MockProvider{opts: newOptions("", opts)}
}

func (p *MockProvider) Name() string { return ProviderMock }

func (p *MockProvider) IsAvailable() bool { return true }

func (p *MockProvider) Describe() Info {
	return Info{
		Name:         ProviderMock,
		Cost:         "free",
		RateLimits:   "none",
		Terminal:     true,
		Capabilities: []string{"mock_data", "testing", "fallback"},
	}
}

func (p *MockProvider) Search(_ context.Context, query string, maxResults int) ([]Result, error) {
	maxResults = clampMaxResults(maxResults)

	lower := strings.ToLower(query)

	var data [][2]string
	switch {
	case strings.Contains(lower, "ai") || strings.Contains(lower, "artificial intelligence"):
		data = [][2]string{
			{"Latest AI Developments 2025", "Recent breakthroughs in artificial intelligence including large language models and computer vision."},
			{"AI Applications Across Industries", "AI is transforming healthcare, finance, transportation, and education with innovative solutions."},
			{"Understanding Machine Learning", "Machine learning fundamentals, algorithms, and practical applications for professionals."},
		}
	case strings.Contains(lower, "python"):
		data = [][2]string{
			{"Python Programming Best Practices", "Essential Python programming practices, code organization, and performance optimization."},
			{"Python for Data Science", "Popular Python libraries including NumPy, Pandas, and Scikit-learn for data analysis."},
		}
	default:
		data = [][2]string{
			{fmt.Sprintf("Information about %s", query), fmt.Sprintf("Comprehensive information about %s, including background and context.", query)},
			{fmt.Sprintf("%s - Complete Guide", query), fmt.Sprintf("A detailed guide covering all aspects of %s with practical examples.", query)},
		}
	}

	slug := strings.ToLower(strings.ReplaceAll(query, " ", "-"))
	now := p.opts.now()
	results := make([]Result, 0, len(data))
	for i, d := range data {
		if i >= maxResults {
			break
		}
		results = append(results, Result{
			Title:     d[0],
			URL:       fmt.Sprintf("https://example.com/%s-%d", slug, i+1),
			Snippet:   d[1],
			Source:    ProviderMock,
			Timestamp: now,
			Metadata:  map[string]any{"provider": ProviderMock, "position": i + 1},
		})
	}

	return results, nil
}
