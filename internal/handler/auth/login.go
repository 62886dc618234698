package auth

import (
	"github.com/gin-gonic/gin"

	model "mujtama/internal/model/community"
	httputil "mujtama/internal/pkg/http"
)

// LoginRequest 用户登录请求
type LoginRequest struct {
	Login    string `json:"login" form:"login"`       // 邮箱或手机号
	Password string `json:"password" form:"password"` // 密码
	Remember bool   `json:"remember" form:"remember"` // 记住我（会话30天）
}

// LoginResponseData 登录响应数据
type LoginResponseData struct {
	User    *model.User `json:"user"`    // 用户信息（不含密码）
	Token   string      `json:"token"`   // 会话 Token，可作为 Bearer 使用或用于刷新
	Expires int64       `json:"expires"` // 过期时间（Unix 秒）
}

// Login 用户登录
// @Summary      用户登录
// @Description  使用邮箱或手机号登录，写入会话 Cookie 并返回会话 Token
// @Tags         认证
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200      {object}  httputil.Response{data=LoginResponseData}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}

	sess := session(c)
	user, err := h.authService.Login(c.Request.Context(), sess, req.Login, req.Password, req.Remember)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, "تم تسجيل الدخول بنجاح", LoginResponseData{
		User:    user,
		Token:   sess.Token,
		Expires: sess.Expires,
	})
}
