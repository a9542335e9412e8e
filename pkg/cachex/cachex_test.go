package cachex

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock gives tests deterministic control over entry expiry.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache(clk *fakeClock) *Cache {
	c := New()
	c.now = clk.Now
	return c
}

func TestGetColdMissThenHit(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	var calls atomic.Int32
	loader := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "value-1", nil
	}

	v, origin, err := c.Get(ctx, "k", loader, time.Second, false)
	require.NoError(t, err)
	require.Equal(t, OriginMiss, origin)
	require.Equal(t, "value-1", v)
	require.EqualValues(t, 1, calls.Load())

	v, origin, err = c.Get(ctx, "k", loader, time.Second, false)
	require.NoError(t, err)
	require.Equal(t, OriginHit, origin)
	require.Equal(t, "value-1", v)
	require.EqualValues(t, 1, calls.Load(), "hit must not invoke the loader")
}

func TestStampedeSuppression(t *testing.T) {
	t.Parallel()

	const workers = 50

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return 42, nil
	}

	var entered sync.WaitGroup
	var done sync.WaitGroup
	entered.Add(workers)
	done.Add(workers)

	values := make([]any, workers)
	origins := make([]Origin, workers)
	errs := make([]error, workers)
	for i := range workers {
		go func() {
			defer done.Done()
			entered.Done()
			values[i], origins[i], errs[i] = c.Get(ctx, "hot", loader, time.Minute, false)
		}()
	}

	// Hold the loader until every worker has at least started, then let the
	// single in-flight load complete.
	entered.Wait()
	close(release)
	done.Wait()

	require.EqualValues(t, 1, calls.Load(), "concurrent cold callers must collapse into one load")

	missCount := 0
	for i := range workers {
		require.NoError(t, errs[i])
		require.Equal(t, 42, values[i])
		if origins[i] == OriginMiss {
			missCount++
		}
	}
	require.Equal(t, 1, missCount, "exactly one caller runs the loader")
}

func TestTTLExpiry(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	var calls atomic.Int32
	loader := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return int(calls.Load()), nil
	}

	_, origin, err := c.Get(ctx, "k", loader, time.Second, false)
	require.NoError(t, err)
	require.Equal(t, OriginMiss, origin)

	// Just inside the TTL: still a hit.
	clk.Advance(999 * time.Millisecond)
	v, origin, err := c.Get(ctx, "k", loader, time.Second, false)
	require.NoError(t, err)
	require.Equal(t, OriginHit, origin)
	require.Equal(t, 1, v)

	// Just past the TTL with stale serving disabled: a fresh load.
	clk.Advance(2 * time.Millisecond)
	v, origin, err = c.Get(ctx, "k", loader, time.Second, false)
	require.NoError(t, err)
	require.Equal(t, OriginMiss, origin)
	require.Equal(t, 2, v)
	require.EqualValues(t, 2, calls.Load())
}

func TestStaleWhileRevalidate(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	var calls atomic.Int32
	loader := func(ctx context.Context) (any, error) {
		return int(calls.Add(1)), nil
	}

	_, _, err := c.Get(ctx, "k", loader, time.Second, true)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)

	// Expired entry is served immediately; the refresh happens off to the
	// side without blocking this call.
	v, origin, err := c.Get(ctx, "k", loader, time.Second, true)
	require.NoError(t, err)
	require.Equal(t, OriginStale, origin)
	require.Equal(t, 1, v)

	// Probe with a failing loader: it can only succeed by hitting the entry
	// the background refresh wrote (or by sharing the refresh in flight), so
	// it never kicks off a load of its own.
	probe := func(ctx context.Context) (any, error) { return nil, errors.New("probe must not load") }
	require.Eventually(t, func() bool {
		v, origin, err := c.Get(ctx, "k", probe, time.Second, false)
		return err == nil && origin == OriginHit && v == 2
	}, 2*time.Second, 5*time.Millisecond, "background refresh should replace the entry")
	require.EqualValues(t, 2, calls.Load())
}

func TestStaleSurvivesFailedRefresh(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	var calls atomic.Int32
	loadErr := errors.New("upstream down")
	loader := func(ctx context.Context) (any, error) {
		if calls.Add(1) > 1 {
			return nil, loadErr
		}
		return "good", nil
	}

	_, _, err := c.Get(ctx, "k", loader, time.Second, true)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)

	v, origin, err := c.Get(ctx, "k", loader, time.Second, true)
	require.NoError(t, err)
	require.Equal(t, OriginStale, origin)
	require.Equal(t, "good", v)

	// The failed refresh must not evict the stale entry: every subsequent
	// access keeps serving it and retries the load.
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	v, origin, err = c.Get(ctx, "k", loader, time.Second, true)
	require.NoError(t, err)
	require.Equal(t, OriginStale, origin)
	require.Equal(t, "good", v)
}

func TestLoaderErrorPropagatesToSharers(t *testing.T) {
	t.Parallel()

	const workers = 10

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	loadErr := errors.New("boom")
	release := make(chan struct{})
	loader := func(ctx context.Context) (any, error) {
		<-release
		return nil, loadErr
	}

	errs := make([]error, workers)
	var entered, done sync.WaitGroup
	entered.Add(workers)
	done.Add(workers)
	for i := range workers {
		go func() {
			defer done.Done()
			entered.Done()
			_, _, errs[i] = c.Get(ctx, "k", loader, time.Second, false)
		}()
	}

	entered.Wait()
	close(release)
	done.Wait()

	for i := range workers {
		require.ErrorIs(t, errs[i], loadErr)
	}

	// Nothing was cached; the next access tries again.
	require.Equal(t, 0, c.Len())
}

func TestInvalidate(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	var calls atomic.Int32
	loader := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "v", nil
	}

	_, _, err := c.Get(ctx, "k", loader, time.Minute, false)
	require.NoError(t, err)

	c.Invalidate("k")

	_, origin, err := c.Get(ctx, "k", loader, time.Minute, false)
	require.NoError(t, err)
	require.Equal(t, OriginMiss, origin)
	require.EqualValues(t, 2, calls.Load())
}

func TestInvalidateDuringInFlightLoadIsNotResurrected(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return "old", nil
	}

	go func() {
		_, _, _ = c.Get(ctx, "k", loader, time.Minute, false)
	}()

	<-started
	c.Invalidate("k")
	close(release)

	// The in-flight load finished after the invalidation, so its result must
	// not repopulate the cache.
	require.Never(t, func() bool { return c.Len() != 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestClear(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	loader := func(ctx context.Context) (any, error) { return "v", nil }
	for _, key := range []string{"a", "b", "c"} {
		_, _, err := c.Get(ctx, key, loader, time.Minute, false)
		require.NoError(t, err)
	}
	require.Equal(t, 3, c.Len())

	c.Clear()
	require.Equal(t, 0, c.Len())

	_, origin, err := c.Get(ctx, "a", loader, time.Minute, false)
	require.NoError(t, err)
	require.Equal(t, OriginMiss, origin)
}

func TestSweepKeepsRecentlyExpiredEntries(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	c := newTestCache(clk)
	ctx := context.Background()

	loader := func(ctx context.Context) (any, error) { return "v", nil }

	_, _, err := c.Get(ctx, "old", loader, time.Second, false)
	require.NoError(t, err)

	clk.Advance(time.Hour)
	_, _, err = c.Get(ctx, "recent", loader, time.Second, false)
	require.NoError(t, err)

	clk.Advance(2 * time.Second)

	// "old" expired an hour ago, "recent" two seconds ago. With a one-minute
	// retention only "old" goes; "recent" stays available for stale serving.
	removed := c.Sweep(time.Minute)
	require.Equal(t, 1, removed)
	require.Equal(t, 1, c.Len())

	v, origin, err := c.Get(ctx, "recent", loader, time.Second, true)
	require.NoError(t, err)
	require.Equal(t, OriginStale, origin)
	require.Equal(t, "v", v)
}
