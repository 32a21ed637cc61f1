package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// RateLimiter limits connection attempts per client IP over a sliding window.
type RateLimiter struct {
	max        int
	window     time.Duration
	trustProxy bool
	now        func() time.Time

	mu        sync.Mutex
	attempts  map[string][]time.Time // IP -> attempt times
	lastSweep time.Time
}

// NewRateLimiter allows max attempts per IP within window. A max of zero or
// less disables limiting. Forwarding headers are only honoured with
// trustProxy, i.e. when every request arrives through a proxy that sets them.
func NewRateLimiter(max int, window time.Duration, trustProxy bool) *RateLimiter {
	return &RateLimiter{
		max:        max,
		window:     window,
		trustProxy: trustProxy,
		now:        time.Now,
		attempts:   make(map[string][]time.Time),
	}
}

// Allow records an attempt from ip and reports whether it is within the limit.
func (l *RateLimiter) Allow(ip string) bool {
	if l.max <= 0 {
		return true
	}
	now := l.now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(windowStart)
		l.lastSweep = now
	}

	recent := pruned(l.attempts[ip], windowStart)
	if len(recent) >= l.max {
		l.attempts[ip] = recent
		return false
	}
	l.attempts[ip] = append(recent, now)
	return true
}

// sweep drops every IP with no attempt inside the window. Caller holds mu.
func (l *RateLimiter) sweep(windowStart time.Time) {
	for ip, ts := range l.attempts {
		if recent := pruned(ts, windowStart); len(recent) > 0 {
			l.attempts[ip] = recent
		} else {
			delete(l.attempts, ip)
		}
	}
}

func pruned(ts []time.Time, windowStart time.Time) []time.Time {
	recent := ts[:0]
	for _, t := range ts {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	return recent
}

// Limit rejects requests over the limit with 429.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, l.trustProxy)
		if !l.Allow(ip) {
			log.WithFields(log.Fields{
				"ip":   ip,
				"path": r.URL.Path,
			}).Warn("Rate limit exceeded")
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the client IP. X-Forwarded-For and X-Real-IP are client
// controlled, so they are read only when trustProxy is set.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
			return strings.TrimSpace(strings.Split(ip, ",")[0])
		}
		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			return ip
		}
	}
	return RemoteIP(r)
}

// RemoteIP returns the host part of the connection's remote address.
func RemoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
