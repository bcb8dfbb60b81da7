package security

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter limits requests per client IP using a fixed window.
type RateLimiter struct {
	mu              sync.Mutex
	windows         map[string]*window
	maxRequests     int
	windowDuration  time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type window struct {
	count int
	start time.Time
}

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	MaxRequests     int           // Requests allowed per window (default: 100)
	WindowDuration  time.Duration // Window length (default: 15m)
	CleanupInterval time.Duration // How often expired windows are dropped (default: 5m)
}

// DefaultRateLimitConfig returns 100 requests per 15 minutes.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests:     100,
		WindowDuration:  15 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// NewRateLimiter creates a rate limiter and starts its cleanup goroutine.
// Call Stop when done.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = defaults.MaxRequests
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = defaults.WindowDuration
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaults.CleanupInterval
	}

	rl := &RateLimiter{
		windows:         make(map[string]*window),
		maxRequests:     cfg.MaxRequests,
		windowDuration:  cfg.WindowDuration,
		cleanupInterval: cfg.CleanupInterval,
		now:             time.Now,
		stopCleanup:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the background cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// Allow counts one request from ip. When the limit is exceeded it returns
// false and the time left until the window resets.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, exists := rl.windows[ip]
	if !exists || now.Sub(w.start) >= rl.windowDuration {
		w = &window{start: now}
		rl.windows[ip] = w
	}

	w.count++
	if w.count > rl.maxRequests {
		return false, w.start.Add(rl.windowDuration).Sub(now)
	}
	return true, 0
}

// Remaining returns how many requests ip may still make in its current window.
func (rl *RateLimiter) Remaining(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, exists := rl.windows[ip]
	if !exists || rl.now().Sub(w.start) >= rl.windowDuration {
		return rl.maxRequests
	}
	if left := rl.maxRequests - w.count; left > 0 {
		return left
	}
	return 0
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanup removes windows that have already expired.
func (rl *RateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, w := range rl.windows {
		if now.Sub(w.start) >= rl.windowDuration {
			delete(rl.windows, ip)
		}
	}
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed, retryAfter := rl.Allow(ip)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining(ip)))
		if !allowed {
			log.Printf("Rate limit exceeded for IP: %s", ip)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"statusCode": http.StatusTooManyRequests,
				"message":    "Too many requests, please try again later.",
				"data":       nil,
			})
			return
		}

		c.Next()
	}
}
