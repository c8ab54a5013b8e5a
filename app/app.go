// Package app is the surface a presentation layer talks to: source list
// management plus reloads reported asynchronously on an event channel.
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/scipunch/rsslist/aggregator"
	"github.com/scipunch/rsslist/cache"
	"github.com/scipunch/rsslist/config"
	"github.com/scipunch/rsslist/fetcher"
	"github.com/scipunch/rsslist/fetcher/types"
	"github.com/scipunch/rsslist/filter"
	"github.com/scipunch/rsslist/source"
)

const eventBuffer = 64

// ErrEmptySource is returned by AddSource for blank input.
var ErrEmptySource = errors.New("source must not be empty")

// ErrClosed is returned by AddSource once Close was called.
var ErrClosed = errors.New("app is closed")

// Registry stores the subscribed sources.
type Registry interface {
	Add(source string) error
	ReplaceAll(sources []string) error
	List() ([]string, error)
}

// Downloader fetches a batch of sources.
type Downloader interface {
	Download(ctx context.Context, sources []string) ([]types.Feed, []error)
}

// App is safe for concurrent use. Registry calls are synchronous; every
// reload runs on its own goroutine and reports through Events.
type App struct {
	registry     Registry
	downloader   Downloader
	filters      *filter.FilterPipeline
	applyFilters []string

	events chan Event
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

type Option func(*App)

// WithFilters hides posts rejected by the named filters from completed reloads.
func WithFilters(filters map[string]config.Filter, names []string) Option {
	return func(a *App) {
		a.filters = filter.NewFilterPipeline(filters)
		a.applyFilters = names
	}
}

func New(registry Registry, downloader Downloader, opts ...Option) *App {
	a := &App{
		registry:   registry,
		downloader: downloader,
		events:     make(chan Event, eventBuffer),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Open wires the default registry, HTTP client, icon cache and aggregator
// from conf. It fails only when the configuration directory is unresolvable;
// a missing cache directory just disables icons.
func Open(conf config.Config) (*App, error) {
	registry, err := source.Default()
	if err != nil {
		return nil, err
	}

	client := fetcher.NewClient(conf)

	var icons fetcher.IconStore
	if conf.Icons {
		dir, err := config.CacheDir()
		if err != nil {
			slog.Warn("icon cache disabled", "error", err)
		} else {
			icons = cache.NewIcons(dir, client)
		}
	}

	agg := aggregator.New(fetcher.NewRSSFetcher(client, icons), conf.MaxParallel)
	return New(registry, agg, WithFilters(conf.Filters, conf.ApplyFilters)), nil
}

// Events delivers notifications in emission order per reload. There must be
// a single consumer.
func (a *App) Events() <-chan Event {
	return a.events
}

func (a *App) ListSources() ([]string, error) {
	return a.registry.List()
}

// AddSource appends src and, on success, emits SourceAdded followed by a
// full reload.
func (a *App) AddSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return ErrEmptySource
	}
	if strings.ContainsAny(src, "\r\n") {
		return source.ErrLineBreak
	}
	if !a.begin() {
		return ErrClosed
	}
	if err := a.registry.Add(src); err != nil {
		a.wg.Done()
		return err
	}

	go func() {
		defer a.wg.Done()
		a.events <- SourceAdded{Source: src}
		a.reload(uuid.New())
	}()
	return nil
}

func (a *App) ReplaceSources(sources []string) error {
	return a.registry.ReplaceAll(sources)
}

// Reload starts a background reload and returns its ID. Reloads cannot be
// cancelled; each ends with ReloadComplete or ReloadFailed. After Close it
// does nothing and returns uuid.Nil.
func (a *App) Reload() uuid.UUID {
	if !a.begin() {
		return uuid.Nil
	}
	id := uuid.New()
	go func() {
		defer a.wg.Done()
		a.reload(id)
	}()
	return id
}

// Close waits for in-flight reloads and closes Events. The consumer has to
// keep draining Events until then. Calling it again is a no-op.
func (a *App) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.wg.Wait()
	close(a.events)
}

// begin registers a pending emitter unless the app is closed.
func (a *App) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}
	a.wg.Add(1)
	return true
}

func (a *App) reload(id uuid.UUID) {
	a.events <- ReloadStarted{ID: id}

	// The list is read once; later registry writes do not affect this reload.
	sources, err := a.registry.List()
	if err != nil {
		slog.Error("reload failed", "id", id, "error", err)
		a.events <- ReloadFailed{ID: id, Err: err}
		return
	}

	feeds, errs := a.downloader.Download(context.Background(), sources)
	for _, err := range errs {
		a.events <- ReloadError{ID: id, Err: err}
	}

	if a.filters != nil {
		feeds = a.filters.Apply(feeds, a.applyFilters)
	}
	a.events <- ReloadComplete{ID: id, Feeds: feeds}
}

// Run triggers a reload and blocks until it finishes, collecting its events.
// It is meant for consumers without an event loop of their own, and must not
// be mixed with a concurrent reader of Events.
func (a *App) Run() ([]types.Feed, []error, error) {
	id := a.Reload()
	if id == uuid.Nil {
		return nil, nil, ErrClosed
	}

	var errs []error
	for evt := range a.events {
		switch e := evt.(type) {
		case ReloadError:
			if e.ID == id {
				errs = append(errs, e.Err)
			}
		case ReloadFailed:
			if e.ID == id {
				return nil, errs, e.Err
			}
		case ReloadComplete:
			if e.ID == id {
				return e.Feeds, errs, nil
			}
		}
	}
	return nil, errs, errors.New("event channel closed before reload finished")
}
