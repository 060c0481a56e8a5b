package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/dto"
	"techsphere/cmd/api/handlers"
	"techsphere/cmd/api/metrics"
	"techsphere/cmd/api/middleware"
	"techsphere/cmd/api/services"
	"techsphere/cmd/internal/logger"
	"techsphere/config"
	_ "techsphere/docs"
)

// Deps 는 라우터 구성에 필요한 서비스와 인프라 의존성이다.
type Deps struct {
	Config  config.AppConfig
	Blogs   *services.BlogService
	Users   *services.UserService
	Essays  *services.EssayService
	Auth    auth.Provider
	Limiter middleware.RequestRateLimiter
	Metrics *metrics.Manager
	// Ping is nil in demo mode.
	Ping handlers.PingFunc
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	// 프록시 목록이 없으면 ClientIP 는 RemoteAddr 만 사용한다.
	if err := r.SetTrustedProxies(d.Config.Server.TrustedProxies); err != nil {
		logger.Log.Errorf("invalid trusted proxies %v: %v", d.Config.Server.TrustedProxies, err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		middleware.RequestTrace(),
		middleware.RequestMetrics(d.Metrics),
		middleware.Recovery(d.Config.IsProduction(), d.Metrics),
		middleware.SecurityHeaders(),
		middleware.CORS(d.Config.Server.FrontendURL),
		middleware.BodyLimit(int64(d.Config.Server.BodyLimitMB)<<20),
	)

	r.GET("/health", handlers.HealthHandler(d.Ping))
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limit := middleware.NewLimit(d.Config.RateLimit.Requests, d.Config.RateLimit.Window)
	api := r.Group("/api", middleware.RateLimit(d.Limiter, limit, d.Metrics))
	optionalAuth := middleware.OptionalAuth(d.Auth)

	blogs := api.Group("/blogs")
	{
		blogs.GET("", handlers.ListBlogsHandler(d.Blogs))
		blogs.GET("/trending", handlers.TrendingBlogsHandler(d.Blogs))
		blogs.GET("/search", handlers.SearchBlogsHandler(d.Blogs))
		blogs.GET("/:id", handlers.GetBlogHandler(d.Blogs))
		blogs.POST("", optionalAuth, handlers.CreateBlogHandler(d.Blogs))
		blogs.PUT("/:id", handlers.UpdateBlogHandler(d.Blogs))
		blogs.DELETE("/:id", handlers.DeleteBlogHandler(d.Blogs))
		blogs.POST("/:id/rate", optionalAuth, handlers.RateBlogHandler(d.Blogs))
		blogs.GET("/:id/comments", handlers.ListCommentsHandler(d.Blogs))
		blogs.POST("/:id/comments", optionalAuth, handlers.AddCommentHandler(d.Blogs))
	}

	ai := api.Group("/ai")
	{
		ai.POST("/generate", handlers.GenerateEssayHandler(d.Essays))
		ai.POST("/refine", handlers.RefineEssayHandler(d.Essays))
	}

	users := api.Group("/users")
	{
		users.GET("/:userId", handlers.GetUserProfileHandler(d.Users))
		users.GET("/:userId/blogs", handlers.ListUserBlogsHandler(d.Users))
		users.PUT("/:userId", middleware.RequireAuth(d.Auth), handlers.UpdateUserProfileHandler(d.Users))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "Route not found"})
	})

	return r
}
