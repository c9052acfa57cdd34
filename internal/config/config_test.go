package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSetOverwriteFiles(t *testing.T) {
	// Save the original value to restore after the test
	originalValue := OverwriteFiles
	t.Cleanup(func() { OverwriteFiles = originalValue })

	testCases := []struct {
		name     string
		input    bool
		expected bool
	}{
		{
			name:     "set to true",
			input:    true,
			expected: true,
		},
		{
			name:     "set to false",
			input:    false,
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			SetOverwriteFiles(tc.input)
			assert.Equal(t, tc.expected, OverwriteFiles)
		})
	}
}

func TestInitConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()

	assert.Equal(t, "", FeedURL)
	assert.Equal(t, DefaultHTTPTimeout, HTTPTimeout)
	assert.Equal(t, DefaultCacheMaxEntries, CacheMaxEntries)
	assert.Equal(t, int64(DefaultCacheMaxBytes), CacheMaxBytes)
	assert.Equal(t, DefaultImageRatePerSecond, ImageRatePerSecond)
	assert.Equal(t, DefaultPosterMaxWidth, PosterMaxWidth)
	assert.Equal(t, DefaultConcurrency, Concurrency)
	assert.False(t, OverwriteFiles)
}

func TestInitConfig_ReadsViperValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("feed.url", "https://feed.example.com/movies.json")
	viper.Set("http.timeout", "3s")
	viper.Set("cache.maxentries", 10)
	viper.Set("cache.maxbytes", 2048)
	viper.Set("images.rate", 0.5)
	viper.Set("posters.maxwidth", 300)
	viper.Set("posters.concurrency", 0)

	InitConfig()

	assert.Equal(t, "https://feed.example.com/movies.json", FeedURL)
	assert.Equal(t, 3*time.Second, HTTPTimeout)
	assert.Equal(t, 10, CacheMaxEntries)
	assert.Equal(t, int64(2048), CacheMaxBytes)
	assert.Equal(t, 0.5, ImageRatePerSecond)
	assert.Equal(t, 300, PosterMaxWidth)
	assert.Equal(t, DefaultConcurrency, Concurrency, "non-positive concurrency falls back to default")
}

func TestSetDefaults_OutputKeys(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()

	assert.Equal(t, "local", viper.GetString("datasette.mode"))
	assert.Equal(t, "./marquee.db", viper.GetString("datasette.dbfile"))
	assert.Equal(t, "./posters/", viper.GetString("posters.output"))
	assert.Equal(t, "json", viper.GetString("jsonoutputdir"))
}
