package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
	"github.com/lepinkainen/marquee/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(WithHTTPClient(server.Client()), WithRateLimiter(nil))
	data, err := f.Fetch(context.Background(), server.URL+"/poster.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such poster"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(WithHTTPClient(server.Client()), WithRateLimiter(nil))
	_, err := f.Fetch(context.Background(), server.URL+"/missing.jpg")
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsFetchError(err))
	assert.True(t, marqueeerrors.IsStatusError(err))
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestHTTPFetcher_MaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer server.Close()

	f := NewHTTPFetcher(WithHTTPClient(server.Client()), WithRateLimiter(nil), WithMaxBytes(32))
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 32 bytes")
}

func TestHTTPFetcher_RateLimitDeadline(t *testing.T) {
	f := NewHTTPFetcher(WithRateLimiter(ratelimit.NewWithBurst("images", 0.001, 1)))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// The first request consumes the burst; the second cannot get a token in time.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()
	f.httpClient = server.Client()

	_, err := f.Fetch(ctx, server.URL)
	require.NoError(t, err)

	_, err = f.Fetch(ctx, server.URL)
	require.Error(t, err)
	assert.True(t, marqueeerrors.IsFetchError(err))
	assert.Contains(t, err.Error(), "rate limit wait for images")
}
