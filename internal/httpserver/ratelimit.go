package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fdg312/fuel-score/internal/config"
	"github.com/fdg312/fuel-score/internal/userctx"
	"golang.org/x/time/rate"
)

// cleanupEvery — раз в столько запросов удаляем простаивающие buckets
const cleanupEvery = 1000

// clientLimiters — token bucket на клиента (пользователь или IP)
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
	counter  atomic.Int64
}

func newClientLimiters(rps, burst int) *clientLimiters {
	return &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (c *clientLimiters) allow(key string) bool {
	c.mu.Lock()
	limiter, ok := c.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(c.rps, c.burst)
		c.limiters[key] = limiter
	}
	if c.counter.Add(1)%cleanupEvery == 0 {
		c.evictIdle()
	}
	c.mu.Unlock()

	return limiter.Allow()
}

// evictIdle удаляет клиентов с полным bucket; вызывать под mu
func (c *clientLimiters) evictIdle() {
	for key, limiter := range c.limiters {
		if limiter.Tokens() >= float64(c.burst) {
			delete(c.limiters, key)
		}
	}
}

// RateLimitMiddleware ограничивает запросы на клиента. Аутентифицированные
// запросы считаются по пользователю, остальные по IP. При RATE_LIMIT_RPS <= 0
// middleware ничего не делает.
func RateLimitMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	if cfg.RateLimitRPS <= 0 {
		return next
	}

	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = cfg.RateLimitRPS
	}
	limiters := newClientLimiters(cfg.RateLimitRPS, burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if !limiters.allow(clientKey(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"code":    "rate_limited",
					"message": "Too many requests",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if userID, ok := userctx.GetUserID(r.Context()); ok && strings.TrimSpace(userID) != "" {
		return "user:" + userID
	}
	return "ip:" + extractIP(r)
}

func extractIP(r *http.Request) string {
	// за прокси берём первый адрес из X-Forwarded-For
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
