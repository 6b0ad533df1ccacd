package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"StockScanner/internal/barcache"
	"StockScanner/internal/metrics"
	"StockScanner/internal/model"
)

// CachedFetcher wraps a Fetcher with a short-lived response cache. Only raw
// provider frames are cached; every scan still sanitizes and analyzes anew.
type CachedFetcher struct {
	Next    Fetcher
	Store   barcache.Store
	TTL     time.Duration
	Metrics *metrics.Metrics
}

// NewCachedFetcher wraps next with store.
func NewCachedFetcher(next Fetcher, store barcache.Store, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{Next: next, Store: store, TTL: ttl}
}

func (c *CachedFetcher) Name() string { return c.Next.Name() + "+cache" }

type cachedFrame struct {
	Symbol     string           `json:"symbol"`
	Interval   string           `json:"interval"`
	Timestamps []time.Time      `json:"timestamps"`
	Columns    map[string][]any `json:"columns"`
}

func cacheKey(provider, symbol string, lookback model.Lookback, interval model.Interval) string {
	return strings.Join([]string{provider, symbol, string(lookback), string(interval)}, "|")
}

func (c *CachedFetcher) FetchBars(ctx context.Context, symbol string, lookback model.Lookback, interval model.Interval) (*model.RawFrame, error) {
	key := cacheKey(c.Next.Name(), symbol, lookback, interval)

	data, ok, err := c.Store.Get(ctx, key)
	switch {
	case err != nil:
		log.Printf("[WARN] bar cache get %s: %v", key, err)
		c.Metrics.ObserveCache("error")
	case ok:
		var cf cachedFrame
		if err := json.Unmarshal(data, &cf); err == nil {
			c.Metrics.ObserveCache("hit")
			return &model.RawFrame{
				Symbol:     cf.Symbol,
				Interval:   cf.Interval,
				Timestamps: cf.Timestamps,
				Columns:    cf.Columns,
			}, nil
		}
		log.Printf("[WARN] bar cache entry %s unreadable, refetching", key)
		c.Metrics.ObserveCache("error")
	default:
		c.Metrics.ObserveCache("miss")
	}

	frame, err := c.Next.FetchBars(ctx, symbol, lookback, interval)
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, fmt.Errorf("%s %s: no frame returned: %w", c.Next.Name(), symbol, model.ErrProviderUnavailable)
	}
	payload, err := json.Marshal(cachedFrame{
		Symbol:     frame.Symbol,
		Interval:   frame.Interval,
		Timestamps: frame.Timestamps,
		Columns:    frame.Columns,
	})
	if err != nil {
		log.Printf("[WARN] bar cache encode %s: %v", key, err)
		return frame, nil
	}
	if err := c.Store.Set(ctx, key, payload, c.TTL); err != nil {
		log.Printf("[WARN] bar cache set %s: %v", key, err)
	}
	return frame, nil
}
