package auth

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
)

// RegisterRequest 用户注册请求，邮箱与手机号至少填写一个
type RegisterRequest struct {
	Name     string `json:"name" form:"name"`         // 姓名（必填）
	Email    string `json:"email" form:"email"`       // 邮箱（可选）
	Phone    string `json:"phone" form:"phone"`       // 手机号（可选，允许本地格式）
	Password string `json:"password" form:"password"` // 密码（至少8位，包含大小写字母和数字）
}

// RegisterResponseData 注册响应数据
type RegisterResponseData struct {
	UserID   string `json:"user_id"`   // 用户ID
	LoggedIn bool   `json:"logged_in"` // 仅手机号注册时自动登录
}

// Register 用户注册
// @Summary      用户注册
// @Description  使用邮箱或手机号注册；仅手机号注册时自动登录，邮箱注册会发送验证邮件
// @Tags         认证
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      200      {object}  httputil.Response{data=RegisterResponseData}
// @Failure      400      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	sess := session(c)
	userID, err := h.authService.Register(ctx, sess, req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	if req.Email != "" {
		// 验证邮件发送失败不影响注册结果
		_ = h.authService.SendVerificationEmail(ctx, userID)
	}

	httputil.OK(c, "تم إنشاء الحساب بنجاح", RegisterResponseData{
		UserID:   userID,
		LoggedIn: sess.UserID == userID,
	})
}
