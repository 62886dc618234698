package auth

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
)

// RefreshTokenRequest 刷新Token请求
type RefreshTokenRequest struct {
	Token string `json:"token" form:"token"` // 当前会话 Token，为空时使用请求会话中的 Token
}

// RefreshTokenResponseData 刷新Token响应数据
type RefreshTokenResponseData struct {
	Token   string `json:"token"`   // 新的会话 Token
	Expires int64  `json:"expires"` // 过期时间（Unix 秒），轮换不延长有效期
}

// Refresh 轮换会话 Token
// @Summary      刷新Token
// @Description  使用未过期的会话 Token 换取新 Token，旧 Token 立即失效
// @Tags         认证
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request  body      RefreshTokenRequest  false  "刷新Token请求"
// @Success      200      {object}  httputil.Response{data=RefreshTokenResponseData}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /api/v1/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if !bind(c, &req) {
		return
	}

	sess := session(c)
	if req.Token == "" {
		req.Token = sess.Token
	}

	token, err := h.authService.RefreshToken(c.Request.Context(), sess, req.Token)
	if err != nil {
		httputil.Error(c, err)
		return
	}

	httputil.OK(c, "تم تحديث الرمز", RefreshTokenResponseData{
		Token:   token,
		Expires: sess.Expires,
	})
}
