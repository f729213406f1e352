package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/nepcollege/internal/model"
)

// Limiter spaces out calls that share a key, such as the upstream provider
// name, by at least minDelay.
type Limiter struct {
	mu       sync.Mutex
	next     map[string]time.Time // earliest start for the next call per key
	minDelay time.Duration
}

// NewLimiter creates a Limiter. A zero minDelay never blocks.
func NewLimiter(minDelay time.Duration) *Limiter {
	return &Limiter{
		next:     make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until a call for key may start and reserves that slot.
// Returns an error if ctx ends first. The reserved slot is not given back.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	l.mu.Lock()
	now := time.Now()
	start := now
	if n, ok := l.next[key]; ok && n.After(now) {
		start = n
	}
	l.next[key] = start.Add(l.minDelay)
	l.mu.Unlock()

	wait := start.Sub(now)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", key, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// RateLimitedHarvester waits on a shared Limiter before delegating to the
// wrapped Harvester.
type RateLimitedHarvester struct {
	inner   model.Harvester
	limiter *Limiter
	key     string
}

var _ model.Harvester = (*RateLimitedHarvester)(nil)

// NewRateLimitedHarvester wraps inner. Harvesters hitting the same provider
// should share one limiter and key.
func NewRateLimitedHarvester(inner model.Harvester, limiter *Limiter, key string) *RateLimitedHarvester {
	return &RateLimitedHarvester{inner: inner, limiter: limiter, key: key}
}

// Harvest waits for the limiter, then delegates.
func (h *RateLimitedHarvester) Harvest(ctx context.Context, criteria model.SearchCriteria, apiKey string) (model.HarvestResult, error) {
	if err := h.limiter.Wait(ctx, h.key); err != nil {
		return model.HarvestResult{}, err
	}
	return h.inner.Harvest(ctx, criteria, apiKey)
}
