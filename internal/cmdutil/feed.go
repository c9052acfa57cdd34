package cmdutil

import (
	"errors"
	"net/http"

	"github.com/lepinkainen/marquee/internal/assets"
	"github.com/lepinkainen/marquee/internal/config"
	"github.com/lepinkainen/marquee/internal/feed"
	"github.com/lepinkainen/marquee/internal/ratelimit"
)

// ErrFeedURLRequired is returned when no feed location is configured.
var ErrFeedURLRequired = errors.New("feed URL is required (provide via --feed-url flag or feed.url in config)")

// ResolveFeedURL prefers the flag value over the configured feed URL.
func ResolveFeedURL(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if config.FeedURL != "" {
		return config.FeedURL, nil
	}
	return "", ErrFeedURLRequired
}

// NewFeedLoader builds a feed loader from the global configuration.
func NewFeedLoader() *feed.Loader {
	return feed.NewLoader(feed.WithTimeout(config.HTTPTimeout))
}

// NewAssetStore builds an image store with an HTTP fetcher, throttling and
// cache bounds taken from the global configuration.
func NewAssetStore() *assets.Store {
	var limiter *ratelimit.Limiter
	if config.ImageRatePerSecond > 0 {
		limiter = ratelimit.New("images", config.ImageRatePerSecond)
	}

	fetcher := assets.NewHTTPFetcher(
		assets.WithHTTPClient(&http.Client{Timeout: config.HTTPTimeout}),
		assets.WithRateLimiter(limiter),
	)
	cache := assets.NewCache(config.CacheMaxEntries, config.CacheMaxBytes)
	return assets.NewStore(fetcher, assets.WithCache(cache))
}
