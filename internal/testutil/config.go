package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/marquee/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	FeedURL            string
	HTTPTimeout        time.Duration
	CacheMaxEntries    int
	CacheMaxBytes      int64
	ImageRatePerSecond float64
	PosterMaxWidth     int
	Concurrency        int
	OverwriteFiles     bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		FeedURL:            config.FeedURL,
		HTTPTimeout:        config.HTTPTimeout,
		CacheMaxEntries:    config.CacheMaxEntries,
		CacheMaxBytes:      config.CacheMaxBytes,
		ImageRatePerSecond: config.ImageRatePerSecond,
		PosterMaxWidth:     config.PosterMaxWidth,
		Concurrency:        config.Concurrency,
		OverwriteFiles:     config.OverwriteFiles,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.FeedURL = state.FeedURL
	config.HTTPTimeout = state.HTTPTimeout
	config.CacheMaxEntries = state.CacheMaxEntries
	config.CacheMaxBytes = state.CacheMaxBytes
	config.ImageRatePerSecond = state.ImageRatePerSecond
	config.PosterMaxWidth = state.PosterMaxWidth
	config.Concurrency = state.Concurrency
	config.OverwriteFiles = state.OverwriteFiles
}

// SetTestConfig resets viper, loads the defaults, disables image throttling and
// restores everything when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()
	config.InitConfig()
	config.ImageRatePerSecond = 0

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}
