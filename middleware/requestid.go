package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const CtxRequestIDKey = "requestId"

// RequestID 每个请求挂唯一ID，响应头回带，日志串联用。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Writer.Header().Set("X-Request-Id", id)
		c.Set(CtxRequestIDKey, id)
		c.Next()
	}
}
