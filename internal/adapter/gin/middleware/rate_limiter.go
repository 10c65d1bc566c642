package middleware

import (
	"fmt"
	"net/http"

	"user-registration-service/internal/adapter/ratelimit"
	"user-registration-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// unmatchedRoute is the key segment shared by requests that hit no route.
const unmatchedRoute = "unmatched"

// RateLimiter returns a Gin middleware that applies limiter per method, route pattern and client IP.
// Limiter errors let the request through.
func RateLimiter(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		key := fmt.Sprintf("%s:%s:%s", c.Request.Method, route, c.ClientIP())

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.WithContext(c.Request.Context(), log).Warn("rate limiter unavailable, allowing request",
				zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"isSuccess": false,
				"errors":    "Rate limit exceeded. Please retry later.",
			})
			return
		}

		c.Next()
	}
}
