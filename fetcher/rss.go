package fetcher

import (
	"context"
	"log/slog"

	"github.com/scipunch/rsslist/fetcher/types"
	"github.com/scipunch/rsslist/parser"
)

// IconStore persists a feed icon and returns its local path. Failures are
// reported as ok=false and never fail the feed.
type IconStore interface {
	Store(ctx context.Context, title, iconURL string) (path string, ok bool)
}

// RSSFetcher fetches and parses syndication feeds (RSS, Atom, JSON Feed).
type RSSFetcher struct {
	client *Client
	icons  IconStore
}

// NewRSSFetcher creates a new feed fetcher. icons may be nil to skip icon
// downloads.
func NewRSSFetcher(client *Client, icons IconStore) *RSSFetcher {
	return &RSSFetcher{
		client: client,
		icons:  icons,
	}
}

// Fetch retrieves and parses the feed at url. It returns exactly one of a
// feed or an error.
func (f *RSSFetcher) Fetch(ctx context.Context, url string) (types.Feed, error) {
	body, err := f.client.Get(ctx, url)
	if err != nil {
		return types.Feed{}, err
	}

	doc, err := parser.Parse(url, body)
	if err != nil {
		return types.Feed{}, err
	}

	feed := doc.Feed
	if f.icons != nil && doc.IconURL != "" {
		if path, ok := f.icons.Store(ctx, feed.Title, doc.IconURL); ok {
			feed.Icon = path
		}
	}

	slog.Debug("feed parsed", "source", url, "posts", len(feed.Posts), "icon", feed.Icon != "")
	return feed, nil
}
