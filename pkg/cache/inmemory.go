package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type (
	InMemory struct {
		entries map[string]entry
		now     func() time.Time

		mx sync.RWMutex
	}

	entry struct {
		value     string
		expiresAt time.Time
	}

	Option func(*InMemory)
)

// WithClock overrides the time source used to expire entries.
func WithClock(now func() time.Time) Option {
	return func(c *InMemory) {
		c.now = now
	}
}

func NewInMemory(opts ...Option) *InMemory {
	res := &InMemory{
		entries: make(map[string]entry, 100), //nolint:mnd // expected capacity
		now:     time.Now,

		mx: sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func (c *InMemory) Get(_ context.Context, key string) (string, bool, error) {
	c.mx.RLock()
	e, ok := c.entries[key]
	c.mx.RUnlock()
	if !ok {
		return "", false, nil
	}

	if !c.now().Before(e.expiresAt) {
		c.mx.Lock()
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mx.Unlock()
		return "", false, nil
	}

	return e.value, true, nil
}

func (c *InMemory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *InMemory) Delete(_ context.Context, key string) error {
	c.mx.Lock()
	defer c.mx.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *InMemory) Len() int {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return len(c.entries)
}

// Sweep removes expired entries and returns how many were removed.
func (c *InMemory) Sweep() int {
	now := c.now()

	c.mx.Lock()
	defer c.mx.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper blocks until ctx is done, sweeping expired entries every interval.
func (c *InMemory) StartSweeper(ctx context.Context, interval time.Duration, log *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			if removed := c.Sweep(); removed > 0 {
				log.DebugContext(ctx, "expired cache entries removed", "count", removed, "remaining", c.Len())
			}
		}
	}
}
