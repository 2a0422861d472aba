package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 是请求 ID 使用的 HTTP 头
const RequestIDHeader = "X-Request-ID"

// RequestIDKey 是请求 ID 在 gin.Context 中的键
const RequestIDKey = "request_id"

// RequestID 为每个请求分配 ID：沿用客户端传入的 X-Request-ID，否则生成一个 UUID。
// ID 会写回响应头，并保存在 Context 中供日志使用。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID 返回当前请求的 ID，没有时返回空字符串
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
