// Package cachex provides a generic read-through cache with TTL expiry,
// optional stale-while-revalidate and stampede suppression. Entries are
// process-local derived copies; the cache never owns authoritative data and
// can be rebuilt at any time from its loaders.
package cachex

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Origin reports how a Get call was satisfied.
type Origin string

const (
	// OriginHit is an unexpired cached value, no loader invocation.
	OriginHit Origin = "HIT"
	// OriginStale is an expired value returned immediately while exactly one
	// background reload runs.
	OriginStale Origin = "STALE"
	// OriginWait means the caller shared the result of a load that was
	// already in flight.
	OriginWait Origin = "WAIT"
	// OriginMiss means this caller invoked the loader.
	OriginMiss Origin = "MISS"
)

// Loader fetches the authoritative value for a key. A slow loader delays all
// sharers; timeouts are the loader's own responsibility, not the cache's.
type Loader func(ctx context.Context) (any, error)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache is safe for concurrent use. The zero value is not usable; call New.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry

	// gens guards against an in-flight load resurrecting a key that was
	// invalidated while the loader ran. epoch does the same for Clear.
	gens  map[string]uint64
	epoch uint64

	group singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		now:     time.Now,
	}
}

// Get returns the value for key, loading it through loader when necessary.
//
// An unexpired entry is returned immediately (HIT). An expired entry with
// allowStale set is returned immediately while one background reload runs
// (STALE); a failed reload leaves the stale entry in place for the next
// attempt. Otherwise concurrent callers for the same key collapse into a
// single loader invocation: the caller that ran the loader sees MISS, the
// sharers see WAIT, and a loader error propagates to every sharer.
func (c *Cache) Get(
	ctx context.Context,
	key string,
	loader Loader,
	ttl time.Duration,
	allowStale bool,
) (any, Origin, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.value, OriginHit, nil
	}
	if ok && allowStale {
		c.mu.Unlock()

		// Kick off one refresh and return the stale value without blocking.
		// The singleflight group collapses this with any other refresh or
		// cold miss already running for the key. The detached context keeps
		// the refresh alive after the triggering request completes.
		refreshCtx := context.WithoutCancel(ctx)
		go func() {
			_, _, _ = c.group.Do(key, func() (any, error) {
				return c.load(refreshCtx, key, loader, ttl)
			})
		}()

		return e.value, OriginStale, nil
	}
	c.mu.Unlock()

	// Cold path. singleflight makes "is a load pending" and "register this
	// load" one atomic decision: exactly one caller runs the closure, the
	// rest wait for its result.
	ran := false
	v, err, _ := c.group.Do(key, func() (any, error) {
		ran = true
		return c.load(ctx, key, loader, ttl)
	})

	origin := OriginWait
	if ran {
		origin = OriginMiss
	}
	if err != nil {
		return nil, origin, err
	}
	return v, origin, nil
}

// load invokes the loader and, on success, stores the result with a fresh
// expiry. The entry is only written if the key was not invalidated while the
// loader ran, so Invalidate and Clear cannot be undone by a slow load.
func (c *Cache) load(ctx context.Context, key string, loader Loader, ttl time.Duration) (any, error) {
	c.mu.Lock()
	gen := c.gens[key]
	epoch := c.epoch
	c.mu.Unlock()

	v, err := loader(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gens[key] == gen && c.epoch == epoch {
		c.entries[key] = entry{value: v, expiresAt: c.now().Add(ttl)}
	}
	c.mu.Unlock()

	return v, nil
}

// Invalidate removes the entry for key immediately. A subsequent Get behaves
// as a MISS.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
	c.group.Forget(key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.epoch++
	c.mu.Unlock()
}

// Sweep drops entries that expired more than retention ago and returns the
// number removed. Recently expired entries are kept so stale-while-revalidate
// still has something to serve; Sweep only bounds memory for keys nobody asks
// about anymore.
func (c *Cache) Sweep(retention time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-retention)
	removed := 0
	for key, e := range c.entries {
		if e.expiresAt.Before(cutoff) {
			delete(c.entries, key)
			c.gens[key]++
			removed++
		}
	}
	return removed
}

// Len reports the number of resident entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
