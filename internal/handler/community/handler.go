package community

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"mujtama/internal/pkg/ctxutil"
	httputil "mujtama/internal/pkg/http"
	"mujtama/internal/server/middleware"
	"mujtama/internal/service"
)

// Handler 社区内容处理器（帖子、评论、想法、用户、搜索、统计）
type Handler struct {
	communityService *service.CommunityService
	authService      *service.AuthService
}

// NewHandler 创建社区内容处理器
func NewHandler(communityService *service.CommunityService, authService *service.AuthService) *Handler {
	return &Handler{
		communityService: communityService,
		authService:      authService,
	}
}

// currentUserID 已认证的用户ID；路由未经过认证中间件时在这里校验会话，失败时已写出响应
func (h *Handler) currentUserID(c *gin.Context) (string, bool) {
	if userID, ok := ctxutil.GetUserID(c.Request.Context()); ok {
		return userID, true
	}
	return middleware.Authenticate(c, h.authService)
}

// pathOr 优先取路径参数，其次取请求体/查询参数中的字段（动作接口没有路径参数）
func pathOr(c *gin.Context, name, fallback string) string {
	if v := c.Param(name); v != "" {
		return v
	}
	return fallback
}

// bind 绑定 JSON/表单/查询参数；空请求体视为没有参数
func bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		httputil.BadRequest(c)
		return false
	}
	return true
}
