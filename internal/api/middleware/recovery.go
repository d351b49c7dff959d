package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/pkg/logger"
	"github.com/d60-Lab/microblog/pkg/response"
	"github.com/d60-Lab/microblog/pkg/sentryx"
)

// Recovery 捕获 panic，并把 response.InternalError 挂到 context 上的错误上报 sentry
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", r)
				}
				logger.Error("panic recovered", zap.Error(err), zap.Stack("stack"))
				sentryx.Capture(c.Request.Context(), err, reportTags(c))
				response.Fail(c, http.StatusInternalServerError, "internal server error")
			}
		}()

		c.Next()

		for _, e := range c.Errors {
			sentryx.Capture(c.Request.Context(), e.Err, reportTags(c))
		}
	}
}

func reportTags(c *gin.Context) map[string]string {
	tags := map[string]string{
		"method":     c.Request.Method,
		"path":       c.FullPath(),
		"request_id": GetRequestID(c),
	}
	if u := CurrentUser(c); u != nil {
		tags["user_id"] = u.ID
	}
	return tags
}
