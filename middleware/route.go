package middleware

import (
	"github.com/gin-gonic/gin"

	midsec "github.com/tuta081098/chat-moji/middleware/security"
)

// RouteOpt 路由配置选项
type RouteOpt struct {
	IsAuth bool
}

// POST 封装：按需挂认证中间件
func POST(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.POST(path, midsec.Middleware(midsec.DefaultOptions()), handler)
	} else {
		r.POST(path, handler)
	}
}

// GET 封装
func GET(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.GET(path, midsec.Middleware(midsec.DefaultOptions()), handler)
	} else {
		r.GET(path, handler)
	}
}
