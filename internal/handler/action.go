package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authHandler "mujtama/internal/handler/auth"
	communityHandler "mujtama/internal/handler/community"
	httputil "mujtama/internal/pkg/http"
	"mujtama/internal/server/middleware"
	"mujtama/internal/service"
)

const msgUnknownAction = "الإجراء غير معروف"

// actionRoute 动作对应的处理函数；requireAuth 表示先校验会话再进入处理函数
type actionRoute struct {
	handle      gin.HandlerFunc
	requireAuth bool
}

// ActionHandler 单入口动作接口：/api?action=...
// 与 /api/v1 的 REST 接口共用同一套处理函数，ID 等参数从查询串或请求体读取
type ActionHandler struct {
	authService *service.AuthService
	routes      map[string]actionRoute
}

// NewActionHandler 创建动作接口处理器
func NewActionHandler(authService *service.AuthService, auth *authHandler.Handler, community *communityHandler.Handler) *ActionHandler {
	return &ActionHandler{
		authService: authService,
		routes: map[string]actionRoute{
			"register":        {handle: auth.Register},
			"login":           {handle: auth.Login},
			"logout":          {handle: auth.Logout},
			"refresh_token":   {handle: auth.Refresh},
			"change_password": {handle: auth.ChangePassword, requireAuth: true},
			"get_profile":     {handle: community.GetProfile},
			"update_profile":  {handle: community.UpdateProfile},
			"add_post":        {handle: community.CreatePost},
			"get_posts":       {handle: community.ListPosts},
			"get_post":        {handle: community.GetPost},
			"update_post":     {handle: community.UpdatePost},
			"delete_post":     {handle: community.DeletePost},
			"like_post":       {handle: community.LikePost},
			"add_comment":     {handle: community.CreateComment},
			"get_comments":    {handle: community.ListComments},
			"add_idea":        {handle: community.CreateIdea},
			"get_ideas":       {handle: community.ListIdeas},
			"vote_idea":       {handle: community.VoteIdea},
			"get_users":       {handle: community.ListUsers},
			"search":          {handle: community.Search},
			"get_stats":       {handle: community.Stats},
		},
	}
}

// Dispatch 按 action 参数分发请求
// @Summary      动作接口
// @Description  兼容旧前端的单入口接口，action 取自查询串或表单字段
// @Tags         动作接口
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        action  query     string  true  "register/login/logout/get_profile/update_profile/add_post/add_idea/get_posts/get_ideas/get_users/..."
// @Success      200     {object}  httputil.Response
// @Failure      400     {object}  httputil.Response
// @Failure      401     {object}  httputil.Response
// @Failure      500     {object}  httputil.Response
// @Router       /api [get]
// @Router       /api [post]
func (h *ActionHandler) Dispatch(c *gin.Context) {
	action := c.Query("action")
	if action == "" {
		action = c.PostForm("action")
	}

	route, ok := h.routes[action]
	if !ok {
		httputil.Fail(c, http.StatusBadRequest, msgUnknownAction)
		return
	}
	if route.requireAuth {
		if _, ok := middleware.Authenticate(c, h.authService); !ok {
			return
		}
	}
	route.handle(c)
}

// Actions 已注册的动作名称（用于日志和测试）
func (h *ActionHandler) Actions() []string {
	names := make([]string, 0, len(h.routes))
	for name := range h.routes {
		names = append(names, name)
	}
	return names
}
