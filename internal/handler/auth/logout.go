package auth

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
)

// Logout 退出登录
// @Summary      退出登录
// @Description  删除服务端会话并清除会话 Cookie；未登录时同样返回成功
// @Tags         认证
// @Produce      json
// @Success      200  {object}  httputil.Response
// @Failure      500  {object}  ErrorResponse
// @Router       /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), session(c)); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم تسجيل الخروج بنجاح", nil)
}
