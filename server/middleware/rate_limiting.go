package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitConfig - Rate limiter configurations
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// RateLimiter counts attempts per key in Redis so limits survive restarts
// and apply across replicas. When Redis is unreachable the limiter fails
// open: throttling is protection, not a dependency.
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a new RateLimiter on the given Redis client
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// isAllowed checks and records one attempt for the key
func (rl *RateLimiter) isAllowed(ctx context.Context, key string, config RateLimitConfig) bool {
	if rl.client == nil {
		return true
	}

	blocked, err := rl.client.Exists(ctx, key+":blocked").Result()
	if err != nil {
		log.Printf("Warning: rate limiter unavailable, allowing request: %v", err)
		return true
	}
	if blocked > 0 {
		return false
	}

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("Warning: rate limiter unavailable, allowing request: %v", err)
		return true
	}
	if count == 1 {
		rl.client.Expire(ctx, key, config.TimeWindow)
	}

	if count > int64(config.MaxRequests) {
		rl.client.Set(ctx, key+":blocked", 1, config.BlockDuration)
		rl.client.Del(ctx, key)
		return false
	}

	return true
}

// LoginRateLimitMiddleware - login endpoint rate limiting per client IP
func (rl *RateLimiter) LoginRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:login:" + c.ClientIP()

		if !rl.isAllowed(c.Request.Context(), key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many login attempts",
				"message": "Too many login attempts. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RegistrationRateLimitMiddleware - registration endpoint rate limiting per
// client IP
func (rl *RateLimiter) RegistrationRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:register:" + c.ClientIP()

		if !rl.isAllowed(c.Request.Context(), key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many registration attempts",
				"message": "Too many registration attempts. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
