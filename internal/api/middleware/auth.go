// Package middleware gin 中间件
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/microblog/internal/model"
	"github.com/d60-Lab/microblog/internal/service"
	"github.com/d60-Lab/microblog/pkg/response"
)

const (
	ctxUserKey   = "currentUser"
	ctxClaimsKey = "currentClaims"
)

// TokenVerifier 由 service.AuthService 实现
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.User, *service.Claims, error)
}

// Auth 校验 Bearer token，通过后把当前用户写入 context
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "Unauthorized")
			return
		}
		user, claims, err := v.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// CurrentUser 未经过 Auth 时返回 nil
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

func CurrentClaims(c *gin.Context) *service.Claims {
	if v, ok := c.Get(ctxClaimsKey); ok {
		if cl, ok := v.(*service.Claims); ok {
			return cl
		}
	}
	return nil
}

// SetCurrentUser 测试或内部调用时注入当前用户
func SetCurrentUser(c *gin.Context, u *model.User) {
	c.Set(ctxUserKey, u)
}
