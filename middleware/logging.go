package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tuta081098/chat-moji/logger"
)

// AccessLog 请求访问日志。
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.Infof("[%s] %d | %v | %s | %s %s",
			c.GetString(CtxRequestIDKey),
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}
