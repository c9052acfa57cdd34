package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// PNG returns an encoded solid-colour PNG of the given size.
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := color.RGBA{R: 200, G: 40, B: 40, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// FeedServer serves a feed document and artwork from an in-memory route table.
type FeedServer struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string][]byte
	hits   map[string]int
}

// NewFeedServer starts a server that answers routes and 404s everything else.
// The server is closed when the test completes.
func NewFeedServer(t *testing.T) *FeedServer {
	t.Helper()

	fs := &FeedServer{
		routes: make(map[string][]byte),
		hits:   make(map[string]int),
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.Close)
	return fs
}

// Handle registers body under path.
func (fs *FeedServer) Handle(path string, body []byte) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.routes[path] = body
}

// Hits returns how many times path was requested.
func (fs *FeedServer) Hits(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

func (fs *FeedServer) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	fs.hits[r.URL.Path]++
	body, ok := fs.routes[r.URL.Path]
	fs.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(body)
}
