package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/loanorigination/pkg/cache"
	"github.com/wyfcoding/loanorigination/pkg/logger"
)

// RateLimitConfig 固定窗口限流配置
type RateLimitConfig struct {
	Enabled       bool
	Requests      int
	WindowSeconds int
}

// RateLimit 基于 Redis 固定窗口的按 IP 限流中间件。
// Redis 不可用时放行（fail open）。
func RateLimit(redis *cache.RedisCache, cfg RateLimitConfig) gin.HandlerFunc {
	window := time.Duration(cfg.WindowSeconds) * time.Second

	return func(c *gin.Context) {
		if !cfg.Enabled || redis == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
		count, err := redis.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			logger.Warn(c.Request.Context(), "Rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		remaining := cfg.Requests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > int64(cfg.Requests) {
			c.Header("Retry-After", strconv.Itoa(cfg.WindowSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
