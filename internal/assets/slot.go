package assets

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	marqueeerrors "github.com/lepinkainen/marquee/internal/errors"
)

// ErrSuperseded is delivered to requests replaced by a newer request on the same slot.
var ErrSuperseded = errors.New("assets: request superseded")

// State is the lifecycle state of a Slot.
type State int

const (
	// Idle means the slot shows nothing (or a placeholder).
	Idle State = iota
	// Fetching means a network fetch for the slot's URL is in flight.
	Fetching
	// Resolved means the slot holds bytes for its URL.
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Result is the outcome of a slot request. Err is ErrSuperseded, a
// *errors.FetchError, or nil.
type Result struct {
	URL       string
	Data      []byte
	FromCache bool
	Err       error
}

// Slot tracks the artwork for one display element that may be asked for
// different URLs over time. Only the most recent request may change its state.
type Slot struct {
	store *Store

	mu      sync.Mutex
	state   State
	url     string
	data    []byte
	gen     uint64
	cancel  context.CancelFunc
	waiters []chan Result
}

// Request asks the slot to show rawURL. The returned channel receives exactly
// one Result and is then closed. Cached bytes are delivered before Request
// returns; otherwise the result arrives when the fetch completes.
func (s *Slot) Request(ctx context.Context, rawURL string) <-chan Result {
	ch := make(chan Result, 1)

	key, err := CanonicalURL(rawURL)
	if err != nil {
		send(ch, Result{URL: rawURL, Err: marqueeerrors.NewFetchError(rawURL, err)})
		return ch
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Resolved && s.url == key {
		send(ch, Result{URL: key, Data: s.data, FromCache: true})
		return ch
	}

	if data, ok := s.store.cache.Get(key); ok {
		res := Result{URL: key, Data: data, FromCache: true}
		if s.state == Fetching && s.url == key {
			s.finishLocked(res)
		} else {
			s.supersedeLocked()
		}
		s.state, s.url, s.data = Resolved, key, data
		send(ch, res)
		return ch
	}

	if s.state == Fetching && s.url == key {
		s.waiters = append(s.waiters, ch)
		return ch
	}

	s.supersedeLocked()
	s.gen++
	fetchCtx, cancel := context.WithCancel(ctx)
	s.state, s.url, s.data = Fetching, key, nil
	s.cancel = cancel
	s.waiters = []chan Result{ch}
	go s.run(fetchCtx, s.gen, key)

	return ch
}

// State returns the slot's state and the URL it tracks.
func (s *Slot) State() (State, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.url
}

// Image returns the resolved bytes. ok is false while idle or fetching, which
// callers render as a placeholder.
func (s *Slot) Image() (data []byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Resolved {
		return nil, false
	}
	return s.data, true
}

// Reset cancels any in-flight fetch and returns the slot to Idle.
func (s *Slot) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	s.state, s.url, s.data = Idle, "", nil
}

func (s *Slot) run(ctx context.Context, gen uint64, key string) {
	data, err := s.store.fetch(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		slog.Debug("Discarding superseded asset fetch", "url", key)
		return
	}

	if err != nil {
		s.finishLocked(Result{URL: key, Err: err})
		s.state, s.url, s.data = Idle, "", nil
		return
	}

	s.store.cache.Put(key, data)
	s.finishLocked(Result{URL: key, Data: data})
	s.state, s.data = Resolved, data
}

// supersedeLocked abandons the in-flight fetch, if any.
func (s *Slot) supersedeLocked() {
	if s.state != Fetching {
		return
	}
	slog.Debug("Superseding asset fetch", "url", s.url)
	s.finishLocked(Result{URL: s.url, Err: ErrSuperseded})
}

// finishLocked ends the current fetch generation and answers its waiters.
func (s *Slot) finishLocked(res Result) {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for _, ch := range s.waiters {
		send(ch, res)
	}
	s.waiters = nil
}

func send(ch chan Result, res Result) {
	ch <- res
	close(ch)
}
