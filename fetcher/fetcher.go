// Package fetcher performs the network side of a reload: one GET per
// source, handing the body to the parser.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/scipunch/rsslist/config"
	"github.com/scipunch/rsslist/fetcher/types"
)

// Client issues single-attempt GET requests. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
	maxBody   int64
	limiter   *rate.Limiter
}

// NewClient builds a client from the timeout, user agent, body limit and
// request rate in conf.
func NewClient(conf config.Config) *Client {
	limit := rate.Inf
	if conf.RequestsPerSecond > 0 {
		limit = rate.Limit(conf.RequestsPerSecond)
	}
	return &Client{
		http:      &http.Client{Timeout: conf.Timeout.Duration},
		userAgent: conf.UserAgent,
		maxBody:   conf.MaxBodyBytes,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Get fetches url and returns the full body. Any failure, including a
// non-2xx status, is a Transport error attributed to url.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, transportError(url, fmt.Errorf("failed to create request with %w", err))
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, transportError(url, fmt.Errorf("HTTP error: %s", resp.Status))
	}

	var body io.Reader = resp.Body
	if c.maxBody > 0 {
		body = io.LimitReader(resp.Body, c.maxBody+1)
	}
	dat, err := io.ReadAll(body)
	if err != nil {
		return nil, transportError(url, fmt.Errorf("failed to read body with %w", err))
	}
	if c.maxBody > 0 && int64(len(dat)) > c.maxBody {
		return nil, transportError(url, fmt.Errorf("body exceeds %d bytes", c.maxBody))
	}

	return dat, nil
}

func transportError(url string, err error) error {
	return &types.Error{Kind: types.Transport, Source: url, Err: err}
}
