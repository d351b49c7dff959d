// Package api 组装 gin 路由
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/microblog/config"
	_ "github.com/d60-Lab/microblog/docs"
	"github.com/d60-Lab/microblog/internal/api/handler"
	"github.com/d60-Lab/microblog/internal/api/middleware"
	"github.com/d60-Lab/microblog/pkg/metrics"
	"github.com/d60-Lab/microblog/pkg/response"
)

// NewRouter limiter 为 nil 时不限流
func NewRouter(cfg *config.Config, h *handler.Handler, verifier middleware.TokenVerifier, limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		metrics.Middleware(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
		cors.New(corsConfig(cfg.Server.AllowOrigins)),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/upload", cfg.Upload.Dir)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	limit := func(c *gin.Context) { c.Next() }
	if limiter != nil {
		limit = limiter.Handler()
	}

	api := r.Group("/api")
	{
		api.POST("/users", limit, h.SignUp)
		api.POST("/signin", limit, h.SignIn)
	}

	authed := api.Group("", middleware.Auth(verifier), limit)
	{
		authed.POST("/signout", h.SignOut)

		authed.GET("/tweets", h.ListTimeline)
		authed.POST("/tweets", h.PostTweet)
		authed.GET("/tweets/:tweetId", h.GetTweet)
		authed.DELETE("/tweets/:tweetId", h.DeleteTweet)
		authed.GET("/tweets/:tweetId/replies", h.ListReplies)
		authed.POST("/tweets/:tweetId/replies", h.PostReply)
		authed.POST("/tweets/:tweetId/like", h.AddLike)
		authed.POST("/tweets/:tweetId/unlike", h.RemoveLike)

		authed.GET("/users/:userId", h.GetUserProfile)
		authed.PUT("/users/:userId", h.UpdateProfile)
		authed.PATCH("/users/:userId", h.UpdateAccount)
		authed.GET("/users/:userId/tweets", h.ListUserTweets)
		authed.GET("/users/:userId/replied_tweets", h.ListUserReplies)
		authed.GET("/users/:userId/likes", h.ListUserLikes)
		authed.GET("/users/:userId/followers", h.ListFollowers)
		authed.GET("/users/:userId/followings", h.ListFollowings)

		authed.POST("/followships", h.Follow)
		authed.DELETE("/followships/:followingId", h.Unfollow)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
