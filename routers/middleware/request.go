package middleware

import (
	"net/http"
	"sync"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"

	"github.com/prateushsharma/sei-Firewall/config"
	"github.com/prateushsharma/sei-Firewall/storage"
	u "github.com/prateushsharma/sei-Firewall/utils"
)

var (
	rateLimiter gin.HandlerFunc
	initOnce    sync.Once
)

// initRateLimiter builds the per-IP limiter, backed by Redis when a
// connection is configured
func initRateLimiter() {
	conf := config.ServerConfig()

	var store ratelimit.Store
	if storage.RedisClient != nil {
		store = ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: storage.RedisClient,
			Rate:        time.Second,
			Limit:       uint(conf.RateLimitPerSecond),
		})
	} else {
		store = ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
			Rate:  time.Second,
			Limit: uint(conf.RateLimitPerSecond),
		})
	}

	rateLimiter = ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			u.APIResponse(
				c,
				http.StatusTooManyRequests,
				"error",
				"Too many requests, try again later",
				map[string]interface{}{
					"retry_after": time.Until(info.ResetTime).String(),
					"limit":       conf.RateLimitPerSecond,
				},
			)
			c.Abort()
		},
		KeyFunc: func(c *gin.Context) string {
			return "ip:" + c.ClientIP()
		},
	})
}

// RateLimitMiddleware applies per-IP rate limiting to the API surface
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		initOnce.Do(initRateLimiter)
		rateLimiter(c)
		if c.IsAborted() {
			return
		}
		c.Next()
	}
}
