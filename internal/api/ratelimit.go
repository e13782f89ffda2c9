package api

import (
	"net/http"
	"sync"
	"time"
)

// rateLimiter is a fixed-window per-IP limiter for abuse-prone endpoints
// (login, booking). State is in-process only.
type rateLimiter struct {
	mu      sync.Mutex
	seen    map[string]*window
	limit   int
	period  time.Duration
	nowFunc func() time.Time
}

type window struct {
	start time.Time
	count int
}

func newRateLimiter(limit int, period time.Duration) *rateLimiter {
	return &rateLimiter{
		seen:    make(map[string]*window),
		limit:   limit,
		period:  period,
		nowFunc: time.Now,
	}
}

// allow records a hit for key and reports whether it is within the limit.
// Expired windows are dropped opportunistically.
func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.nowFunc()
	w, ok := rl.seen[key]
	if !ok || now.Sub(w.start) > rl.period {
		rl.seen[key] = &window{start: now, count: 1}
		if len(rl.seen) > 1024 {
			for k, v := range rl.seen {
				if now.Sub(v.start) > rl.period {
					delete(rl.seen, k)
				}
			}
		}
		return true
	}
	w.count++
	return w.count <= rl.limit
}

// Limit wraps a handler with the per-IP check. chi's RealIP middleware
// has already rewritten RemoteAddr from proxy headers.
func (rl *rateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			writeJSON(w, http.StatusTooManyRequests, errorBody("too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
