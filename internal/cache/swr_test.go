package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestSWR(t *testing.T) (*SWR, *clock) {
	t.Helper()
	clk := &clock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	s := NewSWR(NewMemoryStore(time.Hour), Options{
		Policy: Policy{TTLs: map[string]time.Duration{"services": 30 * time.Minute}, Default: 10 * time.Minute},
		Now:    clk.Now,
	})
	return s, clk
}

func counter(value string) (Fetcher, *atomic.Int64) {
	n := &atomic.Int64{}
	return func(ctx context.Context) ([]byte, error) {
		n.Add(1)
		return []byte(`"` + value + `"`), nil
	}, n
}

func TestSWRMissFreshStale(t *testing.T) {
	s, clk := newTestSWR(t)
	ctx := context.Background()

	fetchV1, calls := counter("v1")
	data, meta, err := s.Get(ctx, "services:all", fetchV1)
	require.NoError(t, err)
	assert.Equal(t, StateMiss, meta.State)
	assert.JSONEq(t, `"v1"`, string(data))

	clk.Advance(29 * time.Minute)
	_, meta, err = s.Get(ctx, "services:all", fetchV1)
	require.NoError(t, err)
	assert.Equal(t, StateFresh, meta.State)
	assert.Equal(t, int64(1), calls.Load())

	clk.Advance(2 * time.Minute)
	fetchV2, calls2 := counter("v2")
	data, meta, err = s.Get(ctx, "services:all", fetchV2)
	require.NoError(t, err)
	assert.Equal(t, StateStale, meta.State)
	assert.JSONEq(t, `"v1"`, string(data), "stale value served while revalidating")

	s.Wait()
	assert.Equal(t, int64(1), calls2.Load())
	data, meta, err = s.Get(ctx, "services:all", fetchV2)
	require.NoError(t, err)
	assert.Equal(t, StateFresh, meta.State)
	assert.JSONEq(t, `"v2"`, string(data))
}

func TestSWRStaleReadsRevalidateOnce(t *testing.T) {
	s, clk := newTestSWR(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "directory:all", []byte(`[1]`)))
	clk.Advance(time.Hour)

	release := make(chan struct{})
	var calls atomic.Int64
	slow := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte(`[1,2]`), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, meta, err := s.Get(ctx, "directory:all", slow)
			assert.NoError(t, err)
			assert.Equal(t, StateStale, meta.State)
		}()
	}
	wg.Wait()
	close(release)
	s.Wait()
	assert.Equal(t, int64(1), calls.Load())
}

func TestSWRFailedRevalidationKeepsStale(t *testing.T) {
	s, clk := newTestSWR(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "services:all", []byte(`["old"]`)))
	clk.Advance(time.Hour)

	failing := func(ctx context.Context) ([]byte, error) { return nil, errors.New("airtable down") }
	_, meta, err := s.Get(ctx, "services:all", failing)
	require.NoError(t, err)
	assert.Equal(t, StateStale, meta.State)
	s.Wait()

	data, meta, err := s.Get(ctx, "services:all", failing)
	require.NoError(t, err)
	assert.Equal(t, StateStale, meta.State)
	assert.JSONEq(t, `["old"]`, string(data))
}

func TestSWRFallbackOnMiss(t *testing.T) {
	s, _ := newTestSWR(t)
	ctx := context.Background()
	require.NoError(t, s.RegisterFallback("services", []string{"fallback"}))

	failing := func(ctx context.Context) ([]byte, error) { return nil, errors.New("boom") }
	data, meta, err := s.Get(ctx, "services:all", failing)
	require.NoError(t, err)
	assert.Equal(t, StateFallback, meta.State)
	assert.JSONEq(t, `["fallback"]`, string(data))

	_, _, err = s.Get(ctx, "quotes:1", failing)
	assert.EqualError(t, err, "boom")

	stats := s.Stats()
	assert.Equal(t, int64(1), stats[StateFallback])
}

func TestSWRInvalidateAndRefresh(t *testing.T) {
	s, _ := newTestSWR(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "services:all", []byte(`1`)))
	require.NoError(t, s.Put(ctx, "services:rec1", []byte(`2`)))
	require.NoError(t, s.Put(ctx, "directory:all", []byte(`3`)))

	require.NoError(t, s.Invalidate(ctx, "services"))
	fetch, calls := counter("x")
	_, meta, err := s.Get(ctx, "services:rec1", fetch)
	require.NoError(t, err)
	assert.Equal(t, StateMiss, meta.State)
	_, meta, err = s.Get(ctx, "directory:all", fetch)
	require.NoError(t, err)
	assert.Equal(t, StateFresh, meta.State)

	require.NoError(t, s.Refresh(ctx, "directory:all", fetch))
	assert.Equal(t, int64(2), calls.Load())
}

func TestSWRInvalidateDropsInFlightRevalidation(t *testing.T) {
	s, clk := newTestSWR(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "services:all", []byte(`"price=100"`)))
	clk.Advance(time.Hour)

	started := make(chan struct{})
	release := make(chan struct{})
	before := func(ctx context.Context) ([]byte, error) {
		close(started)
		<-release
		return []byte(`"price=100"`), nil
	}
	_, meta, err := s.Get(ctx, "services:all", before)
	require.NoError(t, err)
	assert.Equal(t, StateStale, meta.State)
	<-started

	require.NoError(t, s.Invalidate(ctx, "services"))
	close(release)
	s.Wait()

	after, calls := counter("price=200")
	data, meta, err := s.Get(ctx, "services:all", after)
	require.NoError(t, err)
	assert.Equal(t, StateMiss, meta.State)
	assert.JSONEq(t, `"price=200"`, string(data))
	assert.Equal(t, int64(1), calls.Load())
}

func TestSWRSharedFetchSurvivesCallerCancel(t *testing.T) {
	s, _ := newTestSWR(t)

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]byte, error) {
		started <- struct{}{}
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte(`{"id":"recQ1"}`), nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, _, err := s.Get(ctxA, "quotes:recQ1", fetch)
		errA <- err
	}()
	<-started
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	type result struct {
		data []byte
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		data, _, err := s.Get(context.Background(), "quotes:recQ1", fetch)
		resB <- result{data, err}
	}()
	close(release)

	got := <-resB
	require.NoError(t, got.err)
	assert.JSONEq(t, `{"id":"recQ1"}`, string(got.data))
}

func TestGetJSONTyped(t *testing.T) {
	s, _ := newTestSWR(t)
	type item struct {
		Name string `json:"name"`
	}
	got, meta, err := GetJSON(context.Background(), s, "accommodations:all", func(ctx context.Context) ([]item, error) {
		return []item{{Name: "Posada"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateMiss, meta.State)
	assert.Equal(t, []item{{Name: "Posada"}}, got)
}

func TestSWRStoreErrorsBehaveAsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	s := NewSWR(NewRedisStore(client), Options{})

	fetch, calls := counter("live")
	data, meta, err := s.Get(context.Background(), "services:all", fetch)
	require.NoError(t, err)
	assert.Equal(t, StateMiss, meta.State)
	assert.JSONEq(t, `"live"`, string(data))
	assert.Equal(t, int64(1), calls.Load())
}

func TestPolicyLongestPrefix(t *testing.T) {
	p := Policy{
		TTLs:    map[string]time.Duration{"services": time.Minute, "services:partner": time.Hour},
		Default: time.Second,
	}
	assert.Equal(t, time.Minute, p.TTL("services:all"))
	assert.Equal(t, time.Hour, p.TTL("services:partner:rec9"))
	assert.Equal(t, time.Second, p.TTL("other"))
	assert.Equal(t, "services", Prefix("services:all"))
	assert.Equal(t, "plain", Prefix("plain"))
}
