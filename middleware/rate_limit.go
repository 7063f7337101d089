package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the time window for rate limiting
	Window time.Duration
	// KeyFunc is a function that returns a unique key for rate limiting (defaults to IP)
	KeyFunc func(c echo.Context) string
	// Message is the error message returned when rate limit is exceeded
	Message string
}

// rateLimitEntry tracks the request count of one window
type rateLimitEntry struct {
	count int
}

// RateLimiter is a fixed-window limiter. Entries expire with their window.
type RateLimiter struct {
	config RateLimitConfig
	store  *cache.Cache
	mu     sync.Mutex
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}

	return &RateLimiter{
		config: config,
		store:  cache.New(config.Window, time.Minute),
	}
}

// Allow counts one request for key and reports whether it is within the limit
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if cached, found := rl.store.Get(key); found {
		entry := cached.(*rateLimitEntry)
		if entry.count >= rl.config.Requests {
			return false
		}
		entry.count++
		return true
	}

	rl.store.Set(key, &rateLimitEntry{count: 1}, rl.config.Window)
	return true
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(rl.config.KeyFunc(c)) {
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}
			return next(c)
		}
	}
}

// NewLoginRateLimiter limits login and registration attempts per client IP
func NewLoginRateLimiter(requests int, window time.Duration) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Requests: requests,
		Window:   window,
		Message:  "Too many login attempts. Please wait a minute before trying again.",
	})
}
