package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
	"github.com/soontechgroup/ai-agents-sub001/internal/stringutils"
	"golang.org/x/sync/errgroup"
)

type (
	// FeedItem is a normalized RSS/Atom entry.
	FeedItem struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Link        string    `json:"link"`
		Published   time.Time `json:"published"`
		Author      string    `json:"author,omitempty"`
		Categories  []string  `json:"categories,omitempty"`
		Feed        string    `json:"feed"`
	}

	// RSSProvider searches a fixed set of feeds for items matching the query terms.
	RSSProvider struct {
		feeds  []string
		parser *gofeed.Parser
		logger *slog.Logger
		opts   *options
	}
)

var _ Provider = (*RSSProvider)(nil)

func NewRSSProvider(feeds []string, logger *slog.Logger, opts ...Option) *RSSProvider {
	o := newOptions("", opts)
	parser := gofeed.NewParser()
	parser.Client = o.client
	return &RSSProvider{
		feeds:  feeds,
		parser: parser,
		logger: mylog.OrDefault(logger),
		opts:   o,
	}
}

func (p *RSSProvider) Name() string { return ProviderRSS }

func (p *RSSProvider) IsAvailable() bool { return len(p.feeds) > 0 }

func (p *RSSProvider) Describe() Info {
	return Info{
		Name:         ProviderRSS,
		Cost:         "free",
		RateLimits:   "per feed",
		Capabilities: []string{"news_search", "recent_updates"},
	}
}

func (p *RSSProvider) ReadFeed(ctx context.Context, feedURL string) ([]FeedItem, error) {
	feed, err := p.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse feed %s", feedURL)
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		feedItem := FeedItem{
			Title:       stringutils.SanitizeUnicodeString(item.Title),
			Description: stringutils.SanitizeUnicodeString(item.Description),
			Link:        item.Link,
			Categories:  item.Categories,
			Feed:        feedURL,
		}
		if item.PublishedParsed != nil {
			feedItem.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			feedItem.Published = *item.UpdatedParsed
		}
		if item.Author != nil {
			feedItem.Author = item.Author.Name
		}
		items = append(items, feedItem)
	}

	return items, nil
}

// ReadFeeds reads every configured feed concurrently. Feeds that fail are
// logged and left out; the error is returned only when all of them fail.
func (p *RSSProvider) ReadFeeds(ctx context.Context) ([]FeedItem, error) {
	var (
		mu       sync.Mutex
		items    []FeedItem
		failures int
		lastErr  error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, feedURL := range p.feeds {
		g.Go(func() error {
			feedItems, err := p.ReadFeed(gctx, feedURL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Warn("failed to read feed", "feed", feedURL, "err", err)
				failures++
				lastErr = err
				return nil
			}
			items = append(items, feedItems...)
			return nil
		})
	}
	_ = g.Wait()

	if failures > 0 && failures == len(p.feeds) {
		return nil, lastErr
	}

	return items, nil
}

func (p *RSSProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	maxResults = clampMaxResults(maxResults)

	items, err := p.ReadFeeds(ctx)
	if err != nil {
		return nil, err
	}

	terms := queryTerms(query)
	type scored struct {
		item  FeedItem
		score int
	}
	var matches []scored
	for _, item := range items {
		haystack := strings.ToLower(item.Title + " " + item.Description + " " + strings.Join(item.Categories, " "))
		score := 0
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{item: item, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].item.Published.After(matches[j].item.Published)
	})

	now := p.opts.now()
	results := make([]Result, 0, min(len(matches), maxResults))
	for i, m := range matches {
		if i >= maxResults {
			break
		}
		results = append(results, Result{
			Title:     m.item.Title,
			URL:       m.item.Link,
			Snippet:   stringutils.Truncate(m.item.Description, 300, "..."),
			Source:    ProviderRSS,
			Timestamp: now,
			Metadata: map[string]any{
				"provider":  ProviderRSS,
				"feed":      m.item.Feed,
				"published": m.item.Published,
				"author":    m.item.Author,
			},
		})
	}

	return results, nil
}

func queryTerms(query string) []string {
	var terms []string
	for _, field := range strings.Fields(strings.ToLower(query)) {
		field = strings.Trim(field, ".,!?;:\"'()")
		if len(field) > 2 {
			terms = append(terms, field)
		}
	}
	return terms
}
