package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
	"golang.org/x/sync/singleflight"
)

const (
	defaultLoadTimeout  = 15 * time.Second
	defaultMaxBodyBytes = 8 << 20
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// LoadResult is delivered once per Load call.
type LoadResult struct {
	Sections []Section
	Err      error
}

// Loader fetches and decodes the feed. Concurrent loads of the same URL share
// one request; every caller gets the same result and must treat the returned
// sections as read-only.
type Loader struct {
	httpClient   HTTPDoer
	timeout      time.Duration
	maxBodyBytes int64
	group        singleflight.Group
}

// NewLoader creates a feed loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		httpClient:   &http.Client{},
		timeout:      defaultLoadTimeout,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Option is a functional option for configuring the Loader.
type Option func(*Loader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(l *Loader) {
		if c != nil {
			l.httpClient = c
		}
	}
}

// WithTimeout bounds a single feed request.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithMaxBodyBytes caps how much of the response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBodyBytes = n
		}
	}
}

// Load starts loading feedURL and returns a channel that receives exactly one
// result. The request itself runs under the loader's timeout and is not
// cancelled by ctx; ctx only limits how long this caller waits.
func (l *Loader) Load(ctx context.Context, feedURL string) <-chan LoadResult {
	out := make(chan LoadResult, 1)

	// Detached so that one impatient caller cannot fail a shared request.
	reqCtx := context.WithoutCancel(ctx)
	shared := l.group.DoChan(feedURL, func() (any, error) {
		return l.load(reqCtx, feedURL)
	})

	go func() {
		defer close(out)
		select {
		case res := <-shared:
			if res.Shared {
				slog.Debug("Feed load coalesced", "url", feedURL)
			}
			if res.Err != nil {
				out <- LoadResult{Err: res.Err}
				return
			}
			out <- LoadResult{Sections: res.Val.([]Section)}
		case <-ctx.Done():
			out <- LoadResult{Err: marqueeerrors.NewNetworkLoadError(feedURL, ctx.Err())}
		}
	}()

	return out
}

// Fetch loads the feed and waits for the result.
func (l *Loader) Fetch(ctx context.Context, feedURL string) ([]Section, error) {
	res := <-l.Load(ctx, feedURL)
	return res.Sections, res.Err
}

func (l *Loader) load(ctx context.Context, feedURL string) ([]Section, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	body, err := l.get(ctx, feedURL)
	if err != nil {
		return nil, marqueeerrors.NewNetworkLoadError(feedURL, err)
	}

	sections, err := Decode(body)
	if err != nil {
		return nil, marqueeerrors.NewDecodeLoadError(feedURL, err)
	}

	slog.Debug("Feed loaded", "url", feedURL, "sections", len(sections),
		"movies", MovieCount(sections), "elapsed", time.Since(start))
	return sections, nil
}

func (l *Loader) get(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, marqueeerrors.NewStatusError(resp.StatusCode, string(snippet))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > l.maxBodyBytes {
		return nil, fmt.Errorf("feed body exceeds %d bytes", l.maxBodyBytes)
	}
	return body, nil
}
