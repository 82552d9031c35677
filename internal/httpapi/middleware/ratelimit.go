package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// bucket is a token bucket holding at most burst tokens.
type bucket struct {
	tokens float64
	seen   time.Time
}

// Limiter hands out tokens per client and forgets clients idle for ttl.
type Limiter struct {
	mu      sync.Mutex
	perSec  float64
	burst   float64
	ttl     time.Duration
	clients map[string]*bucket
	now     func() time.Time
}

func NewLimiter(perMinute, burst int, ttl time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		perSec:  float64(perMinute) / 60.0,
		burst:   float64(burst),
		ttl:     ttl,
		clients: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow takes one token for key if one is available.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.evict(now)
	b, ok := l.clients[key]
	if !ok {
		b = &bucket{tokens: l.burst, seen: now}
		l.clients[key] = b
	}
	b.tokens = min(l.burst, b.tokens+now.Sub(b.seen).Seconds()*l.perSec)
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Len reports how many clients are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// caller holds l.mu
func (l *Limiter) evict(now time.Time) {
	if l.ttl <= 0 {
		return
	}
	for k, b := range l.clients {
		if now.Sub(b.seen) > l.ttl {
			delete(l.clients, k)
		}
	}
}

// RateLimit limits requests per client IP; every status request fans out a
// probe to each service. perMinute <= 0 disables limiting.
func RateLimit(perMinute, burst int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := NewLimiter(perMinute, burst, 10*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
