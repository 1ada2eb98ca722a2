package security

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tuta081098/chat-moji/global"
	"github.com/tuta081098/chat-moji/tools/errs"
	jwtlib "github.com/tuta081098/chat-moji/tools/security"
)

// —— context key ——
const (
	CtxUserIDKey = "authUserId" // string
	CtxTokenKey  = "authorization"
)

type Options struct {
	HeaderToken               string // 默认 "Authorization"
	EnableAuthorizationBearer bool   // 默认 true
}

func DefaultOptions() *Options {
	return &Options{
		HeaderToken:               "Authorization",
		EnableAuthorizationBearer: true,
	}
}

// Middleware 校验 Bearer token，通过则把 userID 写入 context。
func Middleware(opts *Options) gin.HandlerFunc {
	if opts == nil {
		opts = DefaultOptions()
	}
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))
		if opts.EnableAuthorizationBearer && strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[len("bearer "):])
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			return
		}

		userID, err := jwtlib.Verify(jwtlib.DefaultOptions(global.GetJwtSecret()), token)
		if err != nil {
			if errors.Is(err, errs.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenExpired)
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenInvalid)
			}
			return
		}

		c.Set(CtxTokenKey, token)
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
