// Package cache implements the catalog's stale-while-revalidate layer.
//
// A read returns the stored value while it is younger than the key's TTL.
// Past that it still returns the stored value but refreshes it in the
// background. Only a read with nothing stored waits for the upstream, and
// when that fails a registered fallback dataset is served instead.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"guanago/internal/metrics"
	"guanago/internal/utils"

	"golang.org/x/sync/singleflight"
)

type State string

const (
	StateFresh    State = "fresh"
	StateStale    State = "stale"
	StateMiss     State = "miss"
	StateFallback State = "fallback"
)

// Meta describes where a value came from.
type Meta struct {
	State    State
	StoredAt time.Time
}

// Fetcher loads the upstream value as JSON.
type Fetcher func(ctx context.Context) ([]byte, error)

type envelope struct {
	StoredAt time.Time       `json:"storedAt"`
	Data     json.RawMessage `json:"data"`
}

type Options struct {
	Policy Policy
	// MaxStale bounds how long an entry is kept after its last write.
	MaxStale time.Duration
	// RefreshTimeout bounds a background revalidation.
	RefreshTimeout time.Duration
	Now            func() time.Time
}

type SWR struct {
	store   Store
	policy  Policy
	maxKeep time.Duration
	refresh time.Duration
	now     func() time.Time

	bg sync.WaitGroup
	sf singleflight.Group

	mu         sync.Mutex
	refreshing map[string]struct{}
	inflight   map[string]int
	fallbacks  map[string][]byte

	// wmu orders stores against invalidations
	wmu  sync.Mutex
	gens map[string]uint64

	counts map[State]*atomic.Int64
}

func NewSWR(store Store, opts Options) *SWR {
	if opts.Policy.Default <= 0 {
		opts.Policy = DefaultPolicy()
	}
	if opts.MaxStale <= 0 {
		opts.MaxStale = 24 * time.Hour
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = 30 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &SWR{
		store:      store,
		policy:     opts.Policy,
		maxKeep:    opts.MaxStale,
		refresh:    opts.RefreshTimeout,
		now:        opts.Now,
		refreshing: map[string]struct{}{},
		inflight:   map[string]int{},
		fallbacks:  map[string][]byte{},
		gens:       map[string]uint64{},
		counts:     map[State]*atomic.Int64{},
	}
	for _, st := range []State{StateFresh, StateStale, StateMiss, StateFallback} {
		s.counts[st] = &atomic.Int64{}
	}
	return s
}

// RegisterFallback sets the dataset served for keys under prefix when the
// upstream fails and nothing is stored.
func (s *SWR) RegisterFallback(prefix string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("fallback %s: %w", prefix, err)
	}
	s.mu.Lock()
	s.fallbacks[prefix] = raw
	s.mu.Unlock()
	return nil
}

// Get returns the value for key, fetching it when absent.
func (s *SWR) Get(ctx context.Context, key string, fetch Fetcher) ([]byte, Meta, error) {
	if env, ok := s.load(ctx, key); ok {
		if s.now().Sub(env.StoredAt) < s.policy.TTL(key) {
			return env.Data, s.hit(key, StateFresh, env.StoredAt), nil
		}
		s.revalidate(key, fetch)
		return env.Data, s.hit(key, StateStale, env.StoredAt), nil
	}

	env, err := s.shared(ctx, key, fetch)
	if err != nil {
		if fb, ok := s.fallback(key); ok {
			utils.LogEvent("", "cache", "fallback", fmt.Sprintf("key=%s err=%v", key, err))
			return fb, s.hit(key, StateFallback, time.Time{}), nil
		}
		return nil, Meta{}, err
	}
	return env.Data, s.hit(key, StateMiss, env.StoredAt), nil
}

// Refresh fetches key now and stores the result regardless of its age.
func (s *SWR) Refresh(ctx context.Context, key string, fetch Fetcher) error {
	_, err := s.shared(ctx, key, fetch)
	return err
}

// Put stores data as the newest value for key.
func (s *SWR) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.put(ctx, key, data, s.generation(key))
	return err
}

// Invalidate drops every key starting with prefix. Fetches already in
// flight for those keys no longer store their result.
func (s *SWR) Invalidate(ctx context.Context, prefix string) error {
	s.wmu.Lock()
	s.gens[prefix]++
	s.wmu.Unlock()

	s.mu.Lock()
	for key := range s.inflight {
		if strings.HasPrefix(key, prefix) {
			s.sf.Forget(key)
		}
	}
	s.mu.Unlock()
	return s.store.DeletePrefix(ctx, prefix)
}

// Wait blocks until background revalidations finish.
func (s *SWR) Wait() {
	s.bg.Wait()
}

// Stats returns lookup counts by state.
func (s *SWR) Stats() map[State]int64 {
	out := make(map[State]int64, len(s.counts))
	for st, c := range s.counts {
		out[st] = c.Load()
	}
	return out
}

func (s *SWR) revalidate(key string, fetch Fetcher) {
	s.mu.Lock()
	if _, busy := s.refreshing[key]; busy {
		s.mu.Unlock()
		return
	}
	s.refreshing[key] = struct{}{}
	s.mu.Unlock()

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.refreshing, key)
			s.mu.Unlock()
		}()

		if _, err := s.shared(context.Background(), key, fetch); err != nil {
			utils.LogEvent("", "cache", "revalidate_failed", fmt.Sprintf("key=%s err=%v", key, err))
		}
	}()
}

// shared runs one fetch per key for all concurrent callers. The fetch is
// bounded by the refresh timeout, not by any caller's cancellation; each
// caller stops waiting when its own ctx ends.
func (s *SWR) shared(ctx context.Context, key string, fetch Fetcher) (envelope, error) {
	ch := s.sf.DoChan(key, func() (any, error) {
		s.track(key, 1)
		defer s.track(key, -1)

		gen := s.generation(key)
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refresh)
		defer cancel()
		data, err := fetch(fctx)
		if err != nil {
			return envelope{}, err
		}
		return s.put(fctx, key, data, gen)
	})
	select {
	case <-ctx.Done():
		return envelope{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return envelope{}, res.Err
		}
		return res.Val.(envelope), nil
	}
}

func (s *SWR) track(key string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] += delta; s.inflight[key] <= 0 {
		delete(s.inflight, key)
	}
}

// generation sums the invalidation counters of every prefix covering key.
func (s *SWR) generation(key string) uint64 {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.generationLocked(key)
}

func (s *SWR) generationLocked(key string) uint64 {
	var g uint64
	for prefix, n := range s.gens {
		if strings.HasPrefix(key, prefix) {
			g += n
		}
	}
	return g
}

// put stores data unless key was invalidated after gen was read.
func (s *SWR) put(ctx context.Context, key string, data []byte, gen uint64) (envelope, error) {
	env := envelope{StoredAt: s.now(), Data: json.RawMessage(data)}
	raw, err := json.Marshal(env)
	if err != nil {
		return envelope{}, fmt.Errorf("cache %s: %w", key, err)
	}
	keep := s.maxKeep
	if ttl := s.policy.TTL(key); ttl > keep {
		keep = ttl
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	if s.generationLocked(key) != gen {
		utils.LogEvent("", "cache", "store_skipped", fmt.Sprintf("key=%s invalidated during fetch", key))
		return env, nil
	}
	if err := s.store.Set(ctx, key, raw, keep); err != nil {
		// the fetched value is still good for this caller
		utils.LogEvent("", "cache", "store_set_failed", fmt.Sprintf("key=%s err=%v", key, err))
	}
	return env, nil
}

func (s *SWR) load(ctx context.Context, key string) (envelope, bool) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		utils.LogEvent("", "cache", "store_get_failed", fmt.Sprintf("key=%s err=%v", key, err))
		return envelope{}, false
	}
	if !ok {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.StoredAt.IsZero() {
		return envelope{}, false
	}
	return env, true
}

func (s *SWR) fallback(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		best    []byte
		bestLen = -1
	)
	for prefix, data := range s.fallbacks {
		if strings.HasPrefix(key, prefix) && len(prefix) > bestLen {
			best, bestLen = data, len(prefix)
		}
	}
	return best, bestLen >= 0
}

func (s *SWR) hit(key string, st State, storedAt time.Time) Meta {
	s.counts[st].Add(1)
	metrics.CacheLookups.WithLabelValues(Prefix(key), string(st)).Inc()
	return Meta{State: st, StoredAt: storedAt}
}

// GetJSON is Get with JSON decoding into T.
func GetJSON[T any](ctx context.Context, s *SWR, key string, fetch func(ctx context.Context) (T, error)) (T, Meta, error) {
	var zero T
	raw, meta, err := s.Get(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, meta, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, meta, fmt.Errorf("cache %s: %w", key, err)
	}
	return out, meta, nil
}

// RefreshJSON is Refresh with JSON encoding of the fetched value.
func RefreshJSON[T any](ctx context.Context, s *SWR, key string, fetch func(ctx context.Context) (T, error)) error {
	return s.Refresh(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
}
