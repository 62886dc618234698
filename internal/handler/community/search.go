package community

import (
	"github.com/gin-gonic/gin"

	httputil "mujtama/internal/pkg/http"
)

// SearchQuery 搜索参数
type SearchQuery struct {
	Query string `json:"q" form:"q"`
	Type  string `json:"type" form:"type"` // all, posts, ideas, users
}

// Search 搜索帖子/想法/用户
// @Summary      搜索
// @Description  不区分大小写的子串匹配；没有结果的类型不出现在响应中
// @Tags         搜索
// @Produce      json
// @Param        q     query     string  true   "搜索词（至少2个字符）"
// @Param        type  query     string  false  "all/posts/ideas/users"
// @Success      200   {object}  httputil.Response{data=community.SearchResult}
// @Failure      400   {object}  ErrorResponse
// @Router       /api/v1/search [get]
func (h *Handler) Search(c *gin.Context) {
	var q SearchQuery
	if !bind(c, &q) {
		return
	}
	result, err := h.communityService.Search(c.Request.Context(), q.Query, q.Type)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, "", result)
}

// Stats 站点统计
// @Summary      站点统计
// @Tags         统计
// @Produce      json
// @Success      200  {object}  httputil.Response{data=community.Stats}
// @Router       /api/v1/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	httputil.OK(c, "", h.communityService.GetStats(c.Request.Context()))
}
