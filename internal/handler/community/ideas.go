package community

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
)

// IdeaRequest 提交想法请求
type IdeaRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
}

// IdeaIDRequest 只携带想法ID的请求
type IdeaIDRequest struct {
	IdeaID string `json:"idea_id" form:"idea_id"`
}

// ListIdeas 想法列表
// @Summary      想法列表
// @Tags         想法
// @Produce      json
// @Param        limit   query     int  false  "数量"
// @Param        offset  query     int  false  "偏移"
// @Success      200     {object}  httputil.Response{data=[]community.Idea}
// @Router       /api/v1/ideas [get]
func (h *Handler) ListIdeas(c *gin.Context) {
	var q PageQuery
	if !bind(c, &q) {
		return
	}
	httputil.OK(c, "", h.communityService.GetIdeas(c.Request.Context(), q.Limit, q.Offset))
}

// GetIdea 想法详情
// @Summary      想法详情
// @Tags         想法
// @Produce      json
// @Param        id   path      string  true  "想法ID"
// @Success      200  {object}  httputil.Response{data=community.Idea}
// @Failure      400  {object}  ErrorResponse
// @Router       /api/v1/ideas/{id} [get]
func (h *Handler) GetIdea(c *gin.Context) {
	var req IdeaIDRequest
	if !bind(c, &req) {
		return
	}
	idea, err := h.communityService.GetIdea(c.Request.Context(), pathOr(c, "id", req.IdeaID))
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "", idea)
}

// CreateIdea 提交想法
// @Summary      提交想法
// @Tags         想法
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      IdeaRequest  true  "想法内容"
// @Success      200      {object}  httputil.Response{data=IDResponseData}
// @Failure      400      {object}  ErrorResponse
// @Failure      401      {object}  ErrorResponse
// @Router       /api/v1/ideas [post]
func (h *Handler) CreateIdea(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req IdeaRequest
	if !bind(c, &req) {
		return
	}

	ideaID, err := h.communityService.AddIdea(c.Request.Context(), userID, req.Title, req.Description, req.Category)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "تم إرسال الفكرة بنجاح", IDResponseData{ID: ideaID})
}

// VoteIdea 投票/取消投票
// @Summary      投票/取消投票
// @Tags         想法
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "想法ID"
// @Success      200  {object}  httputil.Response{data=service.VoteResult}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/ideas/{id}/vote [post]
func (h *Handler) VoteIdea(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}
	var req IdeaIDRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.communityService.ToggleIdeaVote(c.Request.Context(), pathOr(c, "id", req.IdeaID), userID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "", result)
}
