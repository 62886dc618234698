package auth

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
)

// VerifyEmail 验证邮箱
// @Summary      验证邮箱
// @Description  校验邮件中的验证 Token，只标记 Token 所属用户
// @Tags         认证
// @Produce      json
// @Param        token  query     string  true  "验证 Token"
// @Success      200    {object}  httputil.Response
// @Failure      401    {object}  ErrorResponse
// @Router       /api/v1/auth/verify [get]
func (h *Handler) VerifyEmail(c *gin.Context) {
	if err := h.authService.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم تأكيد البريد الإلكتروني", nil)
}

// SendVerification 重新发送验证邮件
// @Summary      重新发送验证邮件
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httputil.Response
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/auth/verify/send [post]
func (h *Handler) SendVerification(c *gin.Context) {
	if err := h.authService.SendVerificationEmail(c.Request.Context(), userID(c)); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم إرسال رسالة التأكيد", nil)
}
