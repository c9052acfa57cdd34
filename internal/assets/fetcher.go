package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
	"github.com/lepinkainen/marquee/internal/ratelimit"
)

const (
	defaultFetchTimeout  = 30 * time.Second
	defaultMaxImageBytes = 20 << 20
	defaultRatePerSecond = 8
)

// Fetcher retrieves the raw bytes behind an artwork URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPFetcher downloads images over HTTP. Requests are throttled by a shared
// rate limiter and never retried.
type HTTPFetcher struct {
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
	maxBytes    int64
}

// NewHTTPFetcher creates an image fetcher.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		httpClient:  &http.Client{Timeout: defaultFetchTimeout},
		rateLimiter: ratelimit.New("images", defaultRatePerSecond),
		maxBytes:    defaultMaxImageBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetcherOption is a functional option for configuring the HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) FetcherOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.httpClient = c
		}
	}
}

// WithRateLimiter replaces the default limiter. Passing nil disables throttling.
func WithRateLimiter(limiter *ratelimit.Limiter) FetcherOption {
	return func(f *HTTPFetcher) {
		f.rateLimiter = limiter
	}
}

// WithMaxBytes caps the size of a single image.
func WithMaxBytes(n int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// Fetch downloads url. Errors are returned as *errors.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, err := f.fetch(ctx, url)
	if err != nil {
		return nil, marqueeerrors.NewFetchError(url, err)
	}
	return data, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, marqueeerrors.NewStatusError(resp.StatusCode, string(snippet))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", f.maxBytes)
	}
	return data, nil
}
