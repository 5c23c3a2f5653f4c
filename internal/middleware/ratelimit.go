package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimit caps requests per client IP within a fixed window, answering 429
// with a Retry-After hint once the budget is spent. This guards the HTTP
// edge only; render provider concurrency is bounded separately by the
// orchestrator's admission gate.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	l := &rateLimiter{
		limit:   limit,
		window:  window,
		buckets: map[string]*rateBucket{},
	}
	return l.middleware
}

type rateBucket struct {
	count int
	reset time.Time
}

type rateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*rateBucket
}

func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()

		l.mu.Lock()
		ip := clientIP(r)
		b, ok := l.buckets[ip]
		if !ok || now.After(b.reset) {
			l.prune(now)
			b = &rateBucket{reset: now.Add(l.window)}
			l.buckets[ip] = b
		}
		b.count++
		over := b.count > l.limit
		wait := b.reset.Sub(now)
		l.mu.Unlock()

		if over {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait/time.Second)+1))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// prune drops expired buckets so the map does not accumulate one entry per
// client forever. Called with the lock held, only when a window rolls over.
func (l *rateLimiter) prune(now time.Time) {
	for ip, b := range l.buckets {
		if now.After(b.reset) {
			delete(l.buckets, ip)
		}
	}
}

// clientIP prefers the first valid X-Forwarded-For hop, then the remote
// address. Unparseable remote addresses are used verbatim so distinct bad
// clients still get distinct buckets.
func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			if ip := strings.TrimSpace(part); ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
