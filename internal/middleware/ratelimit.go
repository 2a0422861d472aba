package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimit 返回一个 Gin 中间件，用于基于客户端 IP 地址进行固定窗口限流。
// redisClient: 用于存储计数器的 Redis 客户端实例，必须提供。
// keyPrefix: 计数器键前缀，例如 "um:"。
// maxRequests: 在指定时间窗口内允许的最大请求数。
// window: 速率限制的时间窗口。
// Redis 不可用时放行请求，只记录错误。
func RateLimit(redisClient *redis.Client, keyPrefix string, maxRequests int, window time.Duration) gin.HandlerFunc {
	// 启动时检查依赖
	if redisClient == nil {
		panic("Redis client cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := keyPrefix + "ratelimit:" + c.ClientIP()

		// INCR 和 EXPIRE 放在同一个 Pipeline 中发送
		pipe := redisClient.Pipeline()
		incrCmd := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			logrus.WithError(err).WithField("key", key).Error("RateLimit: Redis Pipeline failed, request allowed")
			c.Next()
			return
		}

		count, err := incrCmd.Result()
		if err != nil {
			logrus.WithError(err).Error("RateLimit: Failed to get INCR result after successful Exec")
			c.Next()
			return
		}

		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(maxRequests) {
			logrus.WithFields(logrus.Fields{"client_ip": c.ClientIP(), "count": count}).Warn("RateLimit: Too many requests")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}

		c.Next()
	}
}
