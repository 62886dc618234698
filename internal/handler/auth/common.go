package auth

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"mujtama/internal/pkg/ctxutil"
	httputil "mujtama/internal/pkg/http"
)

// ErrorResponse 错误响应（swagger 文档使用）
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
}

// session 当前请求的会话（由会话中间件注入）
func session(c *gin.Context) *ctxutil.Session {
	return ctxutil.GetSession(c.Request.Context())
}

// userID RequireAuth 注入的当前用户ID
func userID(c *gin.Context) string {
	id, _ := ctxutil.GetUserID(c.Request.Context())
	return id
}

// bind 绑定 JSON/表单参数；空请求体视为没有参数
func bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		httputil.BadRequest(c)
		return false
	}
	return true
}
