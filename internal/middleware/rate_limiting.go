package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, perMinute int) (allowed bool, retryAfter time.Duration, err error)
}

// KeyedRateLimiter keeps one token bucket per key. A bucket holds perMinute tokens
// and refills at perMinute per minute.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	now      func() time.Time
}

var _ RequestRateLimiter = (*KeyedRateLimiter)(nil)

func NewKeyedRateLimiter() *KeyedRateLimiter {
	return &KeyedRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

func (l *KeyedRateLimiter) Allow(_ context.Context, key string, perMinute int) (bool, time.Duration, error) {
	if perMinute <= 0 {
		return false, 0, fmt.Errorf("invalid limit for %s: %d per minute", key, perMinute)
	}

	now := l.now()
	limiter := l.limiterFor(key, perMinute, now)

	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0, fmt.Errorf("rate limiter for %s cannot grant a request", key)
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay, nil
	}

	return true, 0, nil
}

func (l *KeyedRateLimiter) limiterFor(key string, perMinute int, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limit := rate.Every(time.Minute / time.Duration(perMinute))
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(limit, perMinute)
		l.limiters[key] = limiter
		return limiter
	}
	if limiter.Burst() != perMinute {
		limiter.SetLimitAt(now, limit)
		limiter.SetBurstAt(now, perMinute)
	}
	return limiter
}

func RateLimit(
	rateLimiter RequestRateLimiter,
	routerName string,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter, err := rateLimiter.Allow(r.Context(), routerName, allowedPerMin)
			if err != nil {
				log.Errorf("rate limiter [%s]: %s", routerName, err)
				http.Error(w, "rate limit internal error", http.StatusInternalServerError)
				return
			}

			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			if metricsManager != nil {
				metricsManager.CounterRateLimited.WithLabelValues(routerName).Inc()
			}
			http.Error(
				w,
				fmt.Sprintf("retry after %.0f seconds", retryAfter.Seconds()),
				http.StatusTooManyRequests,
			)
		})
	}
}
