package auth

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
)

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

// ForgotPasswordRequest 申请重置密码
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

// ResetPasswordRequest 使用重置 Token 设置新密码
type ResetPasswordRequest struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Description  验证当前密码后设置新密码，需要登录
// @Tags         认证
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ChangePasswordRequest  true  "修改密码请求"
// @Success      200      {object}  httputil.Response
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /api/v1/auth/password [post]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bind(c, &req) {
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), userID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم تغيير كلمة المرور بنجاح", nil)
}

// ForgotPassword 申请重置密码
// @Summary      申请重置密码
// @Description  向邮箱发送重置链接；邮箱未注册时同样返回成功
// @Tags         认证
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request  body      ForgotPasswordRequest  true  "邮箱"
// @Success      200      {object}  httputil.Response
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/password/forgot [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bind(c, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "إذا كان البريد مسجلاً فستصلك رسالة لإعادة تعيين كلمة المرور", nil)
}

// ResetPassword 使用重置 Token 设置新密码
// @Summary      重置密码
// @Description  消费一次性重置 Token 并设置新密码
// @Tags         认证
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request  body      ResetPasswordRequest  true  "重置请求"
// @Success      200      {object}  httputil.Response
// @Failure      400      {object}  ErrorResponse
// @Router       /api/v1/auth/password/reset [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bind(c, &req) {
		return
	}

	if err := h.authService.ResetPasswordWithToken(c.Request.Context(), req.Token, req.Password); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم تعيين كلمة المرور الجديدة", nil)
}
