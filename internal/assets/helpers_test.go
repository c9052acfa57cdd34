package assets

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fetchReply struct {
	data []byte
	err  error
}

// gatedFetcher blocks every fetch until the test releases it, so tests control
// completion order.
type gatedFetcher struct {
	mu           sync.Mutex
	calls        map[string]int
	gates        map[string]chan fetchReply
	started      chan string
	ignoreCancel bool
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		calls:   make(map[string]int),
		gates:   make(map[string]chan fetchReply),
		started: make(chan string, 64),
	}
}

func (f *gatedFetcher) gate(url string) chan fetchReply {
	g, ok := f.gates[url]
	if !ok {
		g = make(chan fetchReply, 1)
		f.gates[url] = g
	}
	return g
}

func (f *gatedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls[url]++
	g := f.gate(url)
	ignore := f.ignoreCancel
	f.mu.Unlock()

	f.started <- url

	if ignore {
		r := <-g
		return r.data, r.err
	}
	select {
	case r := <-g:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *gatedFetcher) release(url string, data []byte, err error) {
	f.mu.Lock()
	g := f.gate(url)
	// A fresh gate for the next fetch of the same URL.
	delete(f.gates, url)
	f.mu.Unlock()
	g <- fetchReply{data: data, err: err}
}

func (f *gatedFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *gatedFetcher) waitStarted(t *testing.T, url string) {
	t.Helper()
	select {
	case got := <-f.started:
		if got != url {
			t.Fatalf("fetch started for %q, want %q", got, url)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("fetch for %q never started", url)
	}
}

func receive(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for slot result")
		return Result{}
	}
}

func receiveNow(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	default:
		t.Fatalf("expected an immediately available result")
		return Result{}
	}
}
