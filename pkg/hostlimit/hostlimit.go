// Package hostlimit paces outbound requests per target host. Every host gets
// its own limiter enforcing a minimum inter-request interval, so hammering
// one site never slows requests to another.
package hostlimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer tracks one rate limiter per normalized host.
// It is safe for concurrent use by multiple goroutines.
type Pacer struct {
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New creates a Pacer with the given minimum interval between requests to
// the same host. An interval <= 0 disables pacing.
func New(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host may proceed, or until the context is
// canceled. Different hosts never block each other.
func (p *Pacer) Wait(ctx context.Context, host string) error {
	if p.interval <= 0 {
		return nil
	}
	return p.limiter(host).Wait(ctx)
}

func (p *Pacer) limiter(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.limiters[host]
	if !ok {
		// Burst of 1: the first request goes through immediately, every
		// following one waits out the interval.
		l = rate.NewLimiter(rate.Every(p.interval), 1)
		p.limiters[host] = l
	}
	return l
}

// Interval reports the configured minimum inter-request interval.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
