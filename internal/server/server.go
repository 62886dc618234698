package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "mujtama/docs"
	"mujtama/internal/config"
	"mujtama/internal/handler"
	authHandler "mujtama/internal/handler/auth"
	communityHandler "mujtama/internal/handler/community"
	"mujtama/internal/jobs"
	"mujtama/internal/pkg/cache"
	"mujtama/internal/pkg/jwt"
	"mujtama/internal/pkg/mongodb"
	"mujtama/internal/pkg/storage"
	"mujtama/internal/pkg/storagefactory"
	"mujtama/internal/repository/community"
	"mujtama/internal/server/middleware"
	"mujtama/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	mongo     *mongodb.Client
	redis     *cache.RedisCache
	store     storage.Storage
	db        *community.Database
	codec     *jwt.Codec
	scheduler *jobs.Scheduler

	authSvc      *service.AuthService
	communitySvc *service.CommunityService
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &Server{
		cfg:    cfg,
		engine: gin.New(),
	}

	db, mongoClient, err := OpenDatabase(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	srv.db = db
	srv.mongo = mongoClient

	// 初始化 Redis (可选，仅用于统计缓存)
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without stats cache")
		} else {
			srv.redis = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	// 初始化头像存储 (可选)
	if cfg.Storage.Type != "" {
		store, err := storagefactory.NewStorage(context.Background(), &cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Str("type", cfg.Storage.Type).Msg("failed to init avatar storage, uploads disabled")
		} else {
			srv.store = store
			log.Info().Str("type", store.GetStorageType()).Msg("avatar storage ready")
		}
	}

	secret := cfg.Auth.CookieSecret
	if secret == "" {
		secret = jwt.GenerateToken()
		log.Warn().Msg("cookie secret not configured, using a random one (sessions will not survive restarts)")
	}
	srv.codec = jwt.NewCodec(secret)

	var statsCache service.StatsCache
	if srv.redis != nil {
		statsCache = srv.redis
	}
	srv.authSvc = service.NewAuthService(db, srv.codec, service.NewMailService(cfg.Server.BaseURL), &cfg.Auth)
	srv.communitySvc = service.NewCommunityService(db, statsCache, srv.store, cfg.Redis.StatsTTL)

	if cfg.Jobs.Enabled {
		srv.scheduler = jobs.NewScheduler(db, srv.communitySvc)
		if err := srv.scheduler.Start(&cfg.Jobs); err != nil {
			srv.closeConnections()
			return nil, fmt.Errorf("failed to start jobs: %w", err)
		}
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS(s.cfg.Server.CORSOrigins))
	s.engine.Use(middleware.Session(s.authSvc, s.codec, middleware.CookieOptions{
		Name:   s.cookieName(),
		Secure: s.cfg.Auth.CookieSecure,
	}))

	// 健康检查
	deps := map[string]handler.Pinger{}
	if s.mongo != nil {
		deps["mongo"] = s.mongo
	}
	if s.redis != nil {
		deps["redis"] = s.redis
	}
	healthHandler := handler.NewHealthHandler(deps)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 本地头像存储的静态访问
	if s.store != nil && s.store.GetStorageType() == string(storage.StorageTypeLocal) {
		if local := s.cfg.Storage.Local; local != nil && strings.HasPrefix(local.BaseURL, "/") {
			s.engine.Static(local.BaseURL, local.BasePath)
		}
	}

	limiter := middleware.NewIPRateLimiter(s.cfg.RateLimit.RPS, s.cfg.RateLimit.Burst)
	authHdl := authHandler.NewHandler(s.authSvc)
	communityHdl := communityHandler.NewHandler(s.communitySvc, s.authSvc)
	requireAuth := middleware.RequireAuth(s.authSvc)

	// 动作接口（兼容旧前端）
	actionHdl := handler.NewActionHandler(s.authSvc, authHdl, communityHdl)
	s.engine.Any("/api", middleware.RateLimit(limiter), actionHdl.Dispatch)

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		// 认证接口（公开，限流）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(limiter))
		{
			auth.POST("/register", authHdl.Register)
			auth.POST("/login", authHdl.Login)
			auth.POST("/logout", authHdl.Logout)
			auth.POST("/refresh", authHdl.Refresh)
			auth.POST("/password/forgot", authHdl.ForgotPassword)
			auth.POST("/password/reset", authHdl.ResetPassword)
			auth.GET("/verify", authHdl.VerifyEmail)
			auth.GET("/me", authHdl.GetMe)
			auth.POST("/password", requireAuth, authHdl.ChangePassword)
			auth.POST("/verify/send", requireAuth, authHdl.SendVerification)
		}

		// 帖子与评论
		v1.GET("/posts", communityHdl.ListPosts)
		v1.GET("/posts/:id", communityHdl.GetPost)
		v1.GET("/posts/:id/comments", communityHdl.ListComments)
		v1.POST("/posts", requireAuth, communityHdl.CreatePost)
		v1.PUT("/posts/:id", requireAuth, communityHdl.UpdatePost)
		v1.DELETE("/posts/:id", requireAuth, communityHdl.DeletePost)
		v1.POST("/posts/:id/like", requireAuth, communityHdl.LikePost)
		v1.POST("/posts/:id/comments", requireAuth, communityHdl.CreateComment)

		// 想法
		v1.GET("/ideas", communityHdl.ListIdeas)
		v1.GET("/ideas/:id", communityHdl.GetIdea)
		v1.POST("/ideas", requireAuth, communityHdl.CreateIdea)
		v1.POST("/ideas/:id/vote", requireAuth, communityHdl.VoteIdea)

		// 用户
		v1.GET("/users", communityHdl.ListUsers)
		v1.GET("/users/:id", communityHdl.GetProfile)
		v1.GET("/profile", requireAuth, communityHdl.GetProfile)
		v1.PUT("/profile", requireAuth, communityHdl.UpdateProfile)
		v1.POST("/profile/avatar", requireAuth, communityHdl.UploadAvatar)

		// 搜索与统计
		v1.GET("/search", communityHdl.Search)
		v1.GET("/stats", communityHdl.Stats)
	}
}

func (s *Server) cookieName() string {
	if s.cfg.Auth.CookieName != "" {
		return s.cfg.Auth.CookieName
	}
	return "mujtama_session"
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if s.scheduler != nil {
			s.scheduler.Stop(shutdownCtx)
		}
		s.closeConnections()
		return err
	case err := <-errCh:
		s.closeConnections()
		return err
	}
}

// closeConnections 关闭外部连接
func (s *Server) closeConnections() {
	if s.mongo != nil {
		if err := s.mongo.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis connection")
		}
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
