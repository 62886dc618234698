package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"mujtama/internal/pkg/ctxutil"
	httputil "mujtama/internal/pkg/http"
	"mujtama/internal/service"
)

// RequireAuth 校验会话，将 user_id 注入请求 context（ctxutil.GetUserID 读取）
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Authenticate(c, authService); !ok {
			c.Abort()
			return
		}
		c.Next()
	}
}

// Authenticate 校验当前请求的会话；失败时已写出错误响应
func Authenticate(c *gin.Context, authService *service.AuthService) (string, bool) {
	ctx := c.Request.Context()
	userID, err := authService.CurrentUserID(ctx, ctxutil.GetSession(ctx))
	if err != nil {
		httputil.Error(c, err)
		return "", false
	}
	c.Request = c.Request.WithContext(ctxutil.WithUserID(ctx, userID))
	return userID, true
}

func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
