package exchange

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// RateCache holds a single rate slot with a TTL. Concurrent refreshes are
// collapsed through singleflight so a cold cache issues one upstream fetch.
type RateCache struct {
	source RateSource
	ttl    time.Duration

	mu     sync.Mutex
	rate   *Rate
	expiry time.Time

	sf  singleflight.Group
	now func() time.Time
}

func NewRateCache(source RateSource, ttl time.Duration) *RateCache {
	return &RateCache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *RateCache) Get(ctx context.Context) (*Rate, error) {
	c.mu.Lock()
	if c.rate != nil && c.now().Before(c.expiry) {
		rate := c.rate
		c.mu.Unlock()
		return rate, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sf.Do("rate", func() (any, error) {
		rate, err := c.source.FetchRate(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.rate = rate
		c.expiry = c.now().Add(c.ttl)
		c.mu.Unlock()
		log.Printf("exchange rate refreshed: 1 USD = %.2f KRW", rate.UsdToKrw)
		return rate, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Rate), nil
}

func (c *RateCache) Clear() {
	c.mu.Lock()
	c.rate = nil
	c.expiry = time.Time{}
	c.mu.Unlock()
}
