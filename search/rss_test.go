package search_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soontechgroup/ai-agents-sub001/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockRSSFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <link>https://example.com</link>
    <description>Test RSS feed</description>
    <item>
      <title>Go 1.24 released</title>
      <link>https://example.com/go-124</link>
      <description>The latest Go release brings generic type aliases</description>
      <pubDate>Mon, 01 Jan 2024 12:00:00 GMT</pubDate>
      <category>Programming</category>
    </item>
    <item>
      <title>Weekly Go news</title>
      <link>https://example.com/go-weekly</link>
      <description>Community news roundup</description>
      <pubDate>Tue, 02 Jan 2024 12:00:00 GMT</pubDate>
      <category>Programming</category>
    </item>
    <item>
      <title>Gardening tips</title>
      <link>https://example.com/garden</link>
      <description>Spring planting</description>
      <pubDate>Wed, 03 Jan 2024 12:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			t.Logf("failed to write response: %v", err)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRSSProvider_ReadFeed(t *testing.T) {
	server := newFeedServer(t, mockRSSFeed, http.StatusOK)
	provider := search.NewRSSProvider([]string{server.URL}, nil)

	items, err := provider.ReadFeed(t.Context(), server.URL)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Go 1.24 released", items[0].Title)
	assert.Equal(t, []string{"Programming"}, items[0].Categories)
	assert.Equal(t, 2024, items[0].Published.Year())
}

func TestRSSProvider_SearchRanksByMatchedTerms(t *testing.T) {
	server := newFeedServer(t, mockRSSFeed, http.StatusOK)
	provider := search.NewRSSProvider([]string{server.URL}, nil)
	require.True(t, provider.IsAvailable())

	results, err := provider.Search(t.Context(), "latest Go release news", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Go 1.24 released", results[0].Title)
	assert.Equal(t, "Weekly Go news", results[1].Title)
	assert.Equal(t, search.ProviderRSS, results[0].Source)
}

func TestRSSProvider_NonPositiveMaxResultsUsesDefault(t *testing.T) {
	server := newFeedServer(t, mockRSSFeed, http.StatusOK)
	provider := search.NewRSSProvider([]string{server.URL}, nil)

	for _, maxResults := range []int{0, -1} {
		results, err := provider.Search(t.Context(), "latest Go release news", maxResults)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	}

	results, err := search.NewMockProvider().Search(t.Context(), "gardening", -3)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRSSProvider_PartialFeedFailure(t *testing.T) {
	good := newFeedServer(t, mockRSSFeed, http.StatusOK)
	bad := newFeedServer(t, "not found", http.StatusNotFound)
	provider := search.NewRSSProvider([]string{bad.URL, good.URL}, nil)

	results, err := provider.Search(t.Context(), "gardening", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://example.com/garden", results[0].URL)
}

func TestRSSProvider_AllFeedsFail(t *testing.T) {
	bad := newFeedServer(t, "<invalid/>", http.StatusOK)
	provider := search.NewRSSProvider([]string{bad.URL}, nil)

	_, err := provider.Search(t.Context(), "go", 5)
	assert.Error(t, err)
}

func TestRSSProvider_UnavailableWithoutFeeds(t *testing.T) {
	assert.False(t, search.NewRSSProvider(nil, nil).IsAvailable())
}
