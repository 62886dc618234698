package community

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
	"mujtama/internal/service"
)

// ProfileRequest 查看资料请求
type ProfileRequest struct {
	UserID string `json:"user_id" form:"user_id"` // 为空时返回当前登录用户
}

// UpdateProfileRequest 更新资料请求
type UpdateProfileRequest struct {
	Name   string `json:"name" form:"name"`
	Bio    string `json:"bio" form:"bio"`
	Avatar string `json:"avatar" form:"avatar"` // 为空时保留原头像
}

// AvatarResponseData 头像上传结果
type AvatarResponseData struct {
	URL string `json:"url"`
}

// ListUsers 用户列表
// @Summary      用户列表
// @Tags         用户
// @Produce      json
// @Param        limit   query     int  false  "数量（最多100）"
// @Param        offset  query     int  false  "偏移"
// @Success      200     {object}  httputil.Response{data=[]community.User}
// @Router       /api/v1/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var q PageQuery
	if !bind(c, &q) {
		return
	}
	httputil.OK(c, "", h.communityService.GetUsers(c.Request.Context(), q.Limit, q.Offset))
}

// GetProfile 用户资料及其帖子
// @Summary      用户资料
// @Description  指定用户ID时返回该用户资料，否则返回当前登录用户
// @Tags         用户
// @Produce      json
// @Param        id   path      string  false  "用户ID"
// @Success      200  {object}  httputil.Response{data=service.Profile}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/users/{id} [get]
// @Router       /api/v1/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	var req ProfileRequest
	if !bind(c, &req) {
		return
	}
	userID := pathOr(c, "id", req.UserID)
	if userID == "" {
		var ok bool
		if userID, ok = h.currentUserID(c); !ok {
			return
		}
	}

	profile, err := h.communityService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "", profile)
}

// UpdateProfile 更新当前用户资料
// @Summary      更新资料
// @Tags         用户
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      UpdateProfileRequest  true  "资料"
// @Success      200      {object}  httputil.Response{data=community.User}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /api/v1/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !bind(c, &req) {
		return
	}

	user, err := h.communityService.UpdateProfile(c.Request.Context(), userID, req.Name, req.Bio, req.Avatar)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم تحديث الملف الشخصي", user)
}

// UploadAvatar 上传头像（multipart/form-data）
// @Summary      上传头像
// @Description  支持 jpg/png/gif/webp，最大 2MB
// @Tags         用户
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "头像文件"
// @Success      200     {object}  httputil.Response{data=AvatarResponseData}
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /api/v1/profile/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		httputil.BadRequest(c)
		return
	}
	if file.Size > service.MaxAvatarSize {
		httputil.Error(c, service.ErrAvatarTooLarge)
		return
	}

	src, err := file.Open()
	if err != nil {
		httputil.BadRequest(c)
		return
	}
	defer src.Close()

	url, err := h.communityService.UploadAvatar(c.Request.Context(), userID, file.Filename, src, file.Size)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم تحديث الصورة الشخصية", AvatarResponseData{URL: url})
}
