package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// FeedURL is the location of the movie feed JSON document
	FeedURL string
	// HTTPTimeout bounds a single feed or image request
	HTTPTimeout time.Duration
	// CacheMaxEntries bounds the number of images kept in memory (0 = unbounded)
	CacheMaxEntries int
	// CacheMaxBytes bounds the total image bytes kept in memory (0 = unbounded)
	CacheMaxBytes int64
	// ImageRatePerSecond throttles image requests (0 = unlimited)
	ImageRatePerSecond float64
	// PosterMaxWidth is the width saved posters are scaled down to
	PosterMaxWidth int
	// Concurrency is the number of asset slots used for bulk downloads
	Concurrency int
	// OverwriteFiles controls whether existing output files are replaced
	OverwriteFiles bool
)

// Defaults applied when neither the config file nor the environment sets a value.
const (
	DefaultHTTPTimeout        = 15 * time.Second
	DefaultCacheMaxEntries    = 256
	DefaultCacheMaxBytes      = 64 << 20
	DefaultImageRatePerSecond = 8.0
	DefaultPosterMaxWidth     = 1000
	DefaultConcurrency        = 4
)

// SetDefaults registers default values with viper.
func SetDefaults() {
	viper.SetDefault("feed.url", "")
	viper.SetDefault("http.timeout", DefaultHTTPTimeout.String())
	viper.SetDefault("cache.maxentries", DefaultCacheMaxEntries)
	viper.SetDefault("cache.maxbytes", DefaultCacheMaxBytes)
	viper.SetDefault("images.rate", DefaultImageRatePerSecond)
	viper.SetDefault("posters.maxwidth", DefaultPosterMaxWidth)
	viper.SetDefault("posters.concurrency", DefaultConcurrency)
	viper.SetDefault("posters.output", "./posters/")
	viper.SetDefault("datasette.mode", "local")
	viper.SetDefault("datasette.dbfile", "./marquee.db")
	viper.SetDefault("datasette.remote_url", "")
	viper.SetDefault("datasette.api_token", "")
	viper.SetDefault("jsonoutputdir", "json")
	viper.SetDefault("OverwriteFiles", false)
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	FeedURL = viper.GetString("feed.url")
	HTTPTimeout = viper.GetDuration("http.timeout")
	if HTTPTimeout <= 0 {
		HTTPTimeout = DefaultHTTPTimeout
	}
	CacheMaxEntries = viper.GetInt("cache.maxentries")
	CacheMaxBytes = viper.GetInt64("cache.maxbytes")
	ImageRatePerSecond = viper.GetFloat64("images.rate")
	PosterMaxWidth = viper.GetInt("posters.maxwidth")
	if PosterMaxWidth <= 0 {
		PosterMaxWidth = DefaultPosterMaxWidth
	}
	Concurrency = viper.GetInt("posters.concurrency")
	if Concurrency <= 0 {
		Concurrency = DefaultConcurrency
	}
	OverwriteFiles = viper.GetBool("OverwriteFiles")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}
