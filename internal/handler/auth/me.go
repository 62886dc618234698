package auth

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
)

// GetMe 获取当前用户信息
// @Summary      获取当前用户信息
// @Description  获取当前登录用户的详细信息（不含密码）
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httputil.Response{data=community.User}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/auth/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), session(c))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "", user)
}
