package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RateLimiter is a per-client-IP token bucket guarding the contact sync
// endpoint: every sync walks the full chat-client contact list and bulk
// writes, so it must not be hammered.
type RateLimiter struct {
	limits        map[string]*clientLimit
	mu            sync.RWMutex
	perMinute     int
	cleanupTicker *time.Ticker
	stopChan      chan struct{}
}

type clientLimit struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		limits:    make(map[string]*clientLimit),
		perMinute: perMinute,
		stopChan:  make(chan struct{}),
	}

	rl.cleanupTicker = time.NewTicker(10 * time.Minute)
	go rl.cleanup()

	log.Info().
		Int("per_minute", perMinute).
		Msg("Rate limiter initialized")

	return rl
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "rate_limited",
				"message":    "too many requests, slow down",
				"request_id": c.GetString("request_id"),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	limit, exists := rl.limits[clientIP]
	if !exists {
		limit = &clientLimit{tokens: rl.perMinute, lastRefill: time.Now()}
		rl.limits[clientIP] = limit
	}
	rl.mu.Unlock()

	limit.mu.Lock()
	defer limit.mu.Unlock()

	now := time.Now()
	if elapsed := now.Sub(limit.lastRefill); elapsed >= time.Minute {
		limit.tokens = rl.perMinute
		limit.lastRefill = now
	}

	if limit.tokens <= 0 {
		return false
	}
	limit.tokens--
	return true
}

func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.performCleanup()
		case <-rl.stopChan:
			rl.cleanupTicker.Stop()
			return
		}
	}
}

func (rl *RateLimiter) performCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := time.Now().Add(-30 * time.Minute)
	for ip, limit := range rl.limits {
		limit.mu.Lock()
		stale := limit.lastRefill.Before(threshold)
		limit.mu.Unlock()
		if stale {
			delete(rl.limits, ip)
		}
	}
}

func (rl *RateLimiter) Stop() {
	close(rl.stopChan)
}
