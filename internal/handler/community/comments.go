package community

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
)

// CommentRequest 发表评论请求
type CommentRequest struct {
	PostID   string `json:"post_id" form:"post_id"`
	Content  string `json:"content" form:"content"`
	ParentID string `json:"parent_id" form:"parent_id"` // 回复的评论ID（可选）
}

// ListComments 帖子评论（按时间正序）
// @Summary      评论列表
// @Tags         评论
// @Produce      json
// @Param        id   path      string  true  "帖子ID"
// @Success      200  {object}  httputil.Response{data=[]community.Comment}
// @Failure      400  {object}  ErrorResponse
// @Router       /api/v1/posts/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	var req PostIDRequest
	if !bind(c, &req) {
		return
	}
	comments, err := h.communityService.GetComments(c.Request.Context(), pathOr(c, "id", req.PostID))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "", comments)
}

// CreateComment 发表评论
// @Summary      发表评论
// @Tags         评论
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string          true  "帖子ID"
// @Param        request  body      CommentRequest  true  "评论内容"
// @Success      200      {object}  httputil.Response{data=IDResponseData}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /api/v1/posts/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req CommentRequest
	if !bind(c, &req) {
		return
	}

	commentID, err := h.communityService.AddComment(c.Request.Context(), pathOr(c, "id", req.PostID), userID, req.Content, req.ParentID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم إضافة التعليق", IDResponseData{ID: commentID})
}
