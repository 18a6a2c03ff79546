package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter paces outbound requests with one token bucket per upstream host.
type Limiter struct {
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// New creates a limiter allowing perSecond requests per host with the given
// burst. A perSecond of zero or less disables limiting.
func New(perSecond float64, burst int) *Limiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Unlimited returns a limiter that never blocks
func Unlimited() *Limiter {
	return New(0, 1)
}

func (l *Limiter) forHost(host string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[host]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists = l.limiters[host]; !exists {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[host] = limiter
	}
	return limiter
}

// Wait blocks until the limiter permits a request to host.
// It returns an error if the context is canceled before the request can proceed.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	return l.forHost(host).Wait(ctx)
}
