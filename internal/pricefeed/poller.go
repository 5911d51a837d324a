package pricefeed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "pricefeed:xrp:latest"

// Poller refreshes the quote on a fixed interval, independently of user
// actions. Current never blocks on the feed and never fails.
type Poller struct {
	client   *Client
	interval time.Duration
	cache    *redis.Client
	logger   *slog.Logger

	mu     sync.RWMutex
	latest Pair
	asOf   time.Time
}

// NewPoller builds a poller around the client. The Redis cache is optional.
func NewPoller(client *Client, interval time.Duration, cache *redis.Client, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Poller{
		client:   client,
		interval: interval,
		cache:    cache,
		logger:   logger,
		latest:   Fallback(),
	}
}

// Run polls until the context is cancelled. An immediate refresh happens
// before the first tick so the process starts with a live quote when the
// feed is reachable.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// Current returns the latest quote and its observation time.
func (p *Poller) Current() (Pair, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest, p.asOf
}

func (p *Poller) refresh(ctx context.Context) {
	pair, err := p.client.Fetch(ctx)
	if err != nil {
		if p.logger != nil {
			p.logger.Warn("price feed refresh failed, using fallback", "error", err)
		}
		pair = Fallback()
	}

	p.mu.Lock()
	p.latest = pair
	p.asOf = time.Now().UTC()
	p.mu.Unlock()

	if p.cache != nil && err == nil {
		if payload, merr := json.Marshal(pair); merr == nil {
			cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			// Best effort; a cache miss just means the next reader polls.
			_ = p.cache.Set(cacheCtx, cacheKey, payload, 2*p.interval).Err()
		}
	}
}
