package http

import (
	"net/http"
	"sync"

	"event-analytics/internal/ingestors"

	"golang.org/x/time/rate"
)

// writeKeyLimiter holds one token bucket per write key. Requests without a
// write key share a single bucket; they fail authentication anyway, and the
// shared bucket keeps them from probing the endpoint unthrottled.
type writeKeyLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newWriteKeyLimiter(requestsPerSecond float64, burst int) *writeKeyLimiter {
	return &writeKeyLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

func (l *writeKeyLimiter) allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// mwRateLimit throttles batch submissions per write key.
func mwRateLimit(limiter *writeKeyLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(writeKey(r)) {
				metricRateLimitedTotal.Inc()
				writeErrorResponse(w, r, ingestors.ErrRateLimited())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
