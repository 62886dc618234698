package community

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
	"mujtama/internal/service"
)

// ListPostsQuery 帖子列表查询参数
type ListPostsQuery struct {
	Page     int    `json:"page" form:"page"`
	Limit    int    `json:"limit" form:"limit"` // 为空时使用站点设置
	Category string `json:"category" form:"category"`
	Search   string `json:"search" form:"search"`
}

// PostRequest 发布/编辑帖子请求
type PostRequest struct {
	PostID   string `json:"post_id" form:"post_id"` // 动作接口使用，REST 接口取路径参数
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	Category string `json:"category" form:"category"`
	Tags     string `json:"tags" form:"tags"` // 逗号分隔
}

func (r *PostRequest) input() service.PostInput {
	return service.PostInput{
		Title:    r.Title,
		Content:  r.Content,
		Category: r.Category,
		Tags:     r.Tags,
	}
}

// PostIDRequest 只携带帖子ID的请求
type PostIDRequest struct {
	PostID string `json:"post_id" form:"post_id"`
}

// ListPosts 帖子列表
// @Summary      帖子列表
// @Description  已发布帖子按时间倒序分页，可按分类过滤并按标题/内容搜索
// @Tags         帖子
// @Produce      json
// @Param        page      query     int     false  "页码，从1开始"
// @Param        limit     query     int     false  "每页数量"
// @Param        category  query     string  false  "分类"
// @Param        search    query     string  false  "搜索词"
// @Success      200       {object}  httputil.Response{data=service.PostPage}
// @Router       /api/v1/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	var q ListPostsQuery
	if !bind(c, &q) {
		return
	}
	page := h.communityService.GetPosts(c.Request.Context(), q.Page, q.Limit, q.Category, q.Search)
	httputil.OK(c, "", page)
}

// GetPost 帖子详情（浏览数+1）
// @Summary      帖子详情
// @Tags         帖子
// @Produce      json
// @Param        id   path      string  true  "帖子ID"
// @Success      200  {object}  httputil.Response{data=community.Post}
// @Failure      400  {object}  ErrorResponse
// @Router       /api/v1/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	var req PostIDRequest
	if !bind(c, &req) {
		return
	}
	post, err := h.communityService.GetPost(c.Request.Context(), pathOr(c, "id", req.PostID), true)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "", post)
}

// CreatePost 发布帖子
// @Summary      发布帖子
// @Tags         帖子
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      PostRequest  true  "帖子内容"
// @Success      200      {object}  httputil.Response{data=IDResponseData}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req PostRequest
	if !bind(c, &req) {
		return
	}

	postID, err := h.communityService.AddPost(c.Request.Context(), userID, req.input())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم نشر المقال بنجاح", IDResponseData{ID: postID})
}

// UpdatePost 编辑帖子（仅作者）
// @Summary      编辑帖子
// @Tags         帖子
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string       true  "帖子ID"
// @Param        request  body      PostRequest  true  "帖子内容"
// @Success      200      {object}  httputil.Response
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /api/v1/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req PostRequest
	if !bind(c, &req) {
		return
	}

	err := h.communityService.UpdatePost(c.Request.Context(), pathOr(c, "id", req.PostID), userID, req.input())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم تحديث المقال", nil)
}

// DeletePost 删除帖子及其评论（仅作者）
// @Summary      删除帖子
// @Tags         帖子
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "帖子ID"
// @Success      200  {object}  httputil.Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req PostIDRequest
	if !bind(c, &req) {
		return
	}

	if err := h.communityService.DeletePost(c.Request.Context(), pathOr(c, "id", req.PostID), userID); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم حذف المقال", nil)
}

// LikePost 点赞/取消点赞
// @Summary      点赞/取消点赞
// @Tags         帖子
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "帖子ID"
// @Success      200  {object}  httputil.Response{data=service.LikeResult}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/posts/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req PostIDRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.communityService.TogglePostLike(c.Request.Context(), pathOr(c, "id", req.PostID), userID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "", result)
}
