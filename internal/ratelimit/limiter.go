package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// OperationLimiter throttles outbound supplier calls per operation so a
// burst of storefront traffic cannot trip MyGO's own rate limiting. A
// limiter is created lazily with the default config the first time an
// operation is seen.
type OperationLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewOperationLimiter(config Config) *OperationLimiter {
	return &OperationLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewOperationLimiterWithDefaults() *OperationLimiter {
	return NewOperationLimiter(DefaultConfig())
}

func (l *OperationLimiter) limiter(operation string) *rate.Limiter {
	l.mu.RLock()
	lim, exists := l.limiters[operation]
	l.mu.RUnlock()

	if exists {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, exists = l.limiters[operation]; exists {
		return lim
	}

	lim = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
	l.limiters[operation] = lim
	return lim
}

// SetOperationLimit overrides the limit for one operation. Booking calls
// typically get a much lower budget than catalogue reads.
func (l *OperationLimiter) SetOperationLimit(operation string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.limiters[operation] = rate.NewLimiter(rate.Limit(rps), burst)
}

func (l *OperationLimiter) Wait(ctx context.Context, operation string) error {
	return l.limiter(operation).Wait(ctx)
}
