package base

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/c9s/connectors/pkg/types"
)

// CurrencyCache holds the currencies an adapter needs while parsing
// markets. A zero TTL keeps the entry until Reset.
type CurrencyCache struct {
	TTL time.Duration
	Now func() time.Time

	mu         sync.Mutex
	fetchedAt  time.Time
	currencies types.CurrencyMap
}

func (c *CurrencyCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Get returns the cached currencies, calling fetch when the cache is empty or
// stale. fetch runs without the lock held, so it may call Set.
func (c *CurrencyCache) Get(ctx context.Context, fetch func(ctx context.Context) (types.CurrencyMap, error)) (types.CurrencyMap, error) {
	c.mu.Lock()
	if len(c.currencies) > 0 && (c.TTL == 0 || c.now().Sub(c.fetchedAt) < c.TTL) {
		currencies := c.currencies
		c.mu.Unlock()
		return currencies, nil
	}
	c.mu.Unlock()

	currencies, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.Set(currencies)
	return currencies, nil
}

// Set stores currencies fetched elsewhere.
func (c *CurrencyCache) Set(currencies types.CurrencyMap) {
	c.mu.Lock()
	c.currencies = currencies
	c.fetchedAt = c.now()
	c.mu.Unlock()
}

func (c *CurrencyCache) Reset() {
	c.mu.Lock()
	c.currencies = nil
	c.mu.Unlock()
}

// IDs lists the exchange ids of the given currencies in sorted order.
func IDs(currencies types.CurrencyMap) []string {
	ids := make([]string, 0, len(currencies))
	for _, c := range currencies {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	return ids
}
