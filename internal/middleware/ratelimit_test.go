package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("rate limit not exceeded", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute, false)
		req := httptest.NewRequest("GET", "/fleet", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()

		limiter.Limit(okHandler).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rate limit exceeded", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute, false)
		req := httptest.NewRequest("GET", "/fleet", nil)
		req.RemoteAddr = "192.168.1.2:12345"

		handlerCalled := false
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		handlerCalled = false
		handler.ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})

	t.Run("limits are per ip", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute, false)
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"))
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("window slides", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(2, time.Minute, false)
		limiter.now = func() time.Time { return now }

		assert.True(t, limiter.Allow("10.0.0.1"))
		now = now.Add(30 * time.Second)
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))

		now = now.Add(31 * time.Second)
		assert.True(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("disabled", func(t *testing.T) {
		limiter := NewRateLimiter(0, time.Minute, false)
		for i := 0; i < 100; i++ {
			assert.True(t, limiter.Allow("10.0.0.1"))
		}
	})
}

func TestRateLimiter_IgnoresForwardedForByDefault(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, false)
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest("GET", "/fleet", nil)
		req.RemoteAddr = "198.51.100.9:40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.%d.%d", i/256, i%256))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Len(t, limiter.attempts, 1)
}

func TestRateLimiter_TrustedProxyKeysOnForwardedFor(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, true)
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest("GET", "/fleet", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		req.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, client)
	}
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute, false)
	limiter.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		limiter.Allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	assert.Len(t, limiter.attempts, 1000)

	now = now.Add(time.Minute + time.Second)
	assert.True(t, limiter.Allow("192.0.2.1"))
	assert.Len(t, limiter.attempts, 1)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "ipv6 remote addr", remoteAddr: "[::1]:8080", want: "::1"},
		{name: "forwarded for untrusted", headers: map[string]string{"X-Forwarded-For": "203.0.113.7"}, remoteAddr: "10.0.0.1:1", want: "10.0.0.1"},
		{name: "real ip untrusted", headers: map[string]string{"X-Real-IP": "203.0.113.8"}, remoteAddr: "10.0.0.1:1", want: "10.0.0.1"},
		{name: "forwarded for trusted", trustProxy: true, headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, remoteAddr: "10.0.0.1:1", want: "203.0.113.7"},
		{name: "real ip trusted", trustProxy: true, headers: map[string]string{"X-Real-IP": "203.0.113.8"}, remoteAddr: "10.0.0.1:1", want: "203.0.113.8"},
		{name: "trusted without headers", trustProxy: true, remoteAddr: "10.0.0.1:1", want: "10.0.0.1"},
		{name: "no port", remoteAddr: "192.168.1.9", want: "192.168.1.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req, tt.trustProxy))
		})
	}
}

func TestLogging(t *testing.T) {
	called := false
	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
