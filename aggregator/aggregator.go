// Package aggregator fans a source list out across concurrent fetches and
// partitions the outcomes into feeds and errors.
package aggregator

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/scipunch/rsslist/fetcher/types"
)

// Aggregator runs one fetch per source. It keeps no state between calls.
type Aggregator struct {
	fetcher  types.FeedFetcher
	parallel int
}

// New creates an aggregator. A parallel value below 1 means GOMAXPROCS.
func New(fetcher types.FeedFetcher, parallel int) *Aggregator {
	if parallel < 1 {
		parallel = runtime.GOMAXPROCS(0)
	}
	return &Aggregator{fetcher: fetcher, parallel: parallel}
}

type outcome struct {
	feed types.Feed
	err  error
}

// Download fetches every source and returns one outcome per source: either
// a feed or an error. A failing source never stops the others. Feeds and
// errors keep the relative order of sources.
func (a *Aggregator) Download(ctx context.Context, sources []string) ([]types.Feed, []error) {
	outcomes := make([]outcome, len(sources))

	var g errgroup.Group
	g.SetLimit(a.parallel)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			feed, err := a.fetcher.Fetch(ctx, src)
			outcomes[i] = outcome{feed: feed, err: err}
			return nil // errors are reported per source
		})
	}
	_ = g.Wait()

	var (
		feeds []types.Feed
		errs  []error
	)
	for i, o := range outcomes {
		if o.err != nil {
			slog.Warn("source failed", "source", sources[i], "error", o.err)
			errs = append(errs, o.err)
			continue
		}
		feeds = append(feeds, o.feed)
	}

	slog.Info("sources downloaded", "feeds", len(feeds), "errors", len(errs))
	return feeds, errs
}
