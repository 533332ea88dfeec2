package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Budget is the shared request budget for outbound exchange calls. Every
// fetch in the process draws from the same per-host token bucket, so
// concurrent workers can never exceed the exchange's published limits in
// aggregate.
type Budget struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewBudget creates a budget allowing rps requests per second per host
// with the given burst capacity.
func NewBudget(rps float64, burst int) *Budget {
	if burst < 1 {
		burst = 1
	}
	return &Budget{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (b *Budget) limiter(host string) *rate.Limiter {
	b.mu.RLock()
	l, ok := b.limiters[host]
	b.mu.RUnlock()
	if ok {
		return l
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if l, ok := b.limiters[host]; ok {
		return l
	}
	l = rate.NewLimiter(rate.Limit(b.rps), b.burst)
	b.limiters[host] = l
	return l
}

// Wait blocks until a token for host is available or ctx is cancelled.
func (b *Budget) Wait(ctx context.Context, host string) error {
	return b.limiter(host).Wait(ctx)
}

// Allow reports whether a request for host may proceed right now.
func (b *Budget) Allow(host string) bool {
	return b.limiter(host).Allow()
}

// SetRPS retunes every existing limiter, e.g. after the exchange returns
// a rate warning header.
func (b *Budget) SetRPS(rps float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rps = rps
	for _, l := range b.limiters {
		l.SetLimit(rate.Limit(rps))
	}
}
