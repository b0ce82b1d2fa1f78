package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/config"
	"github.com/pickboard/pickboard-backend/internal/handler"
	"github.com/pickboard/pickboard-backend/internal/middleware"
	"github.com/pickboard/pickboard-backend/pkg/jwt"
	"github.com/pickboard/pickboard-backend/web"
	"github.com/redis/go-redis/v9"
)

// Handlers bundles the handlers mounted by Setup and SetupPages
type Handlers struct {
	Auth        *handler.AuthHandler
	Posts       *handler.PostHandler
	Comments    *handler.CommentHandler
	Likes       *handler.LikeHandler
	Leaderboard *handler.LeaderboardHandler
	Profiles    *handler.ProfileHandler
	WS          *handler.WSHandler
	Pages       *handler.PageHandler
}

// writeLimit returns the per-user limiter applied to write endpoints
func writeLimit(redisClient *redis.Client, cfg *config.Config) gin.HandlerFunc {
	limit := middleware.DefaultRateLimitConfig()
	limit.KeyPrefix = "pickboard:ratelimit:write:"
	limit.PerUser = true
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limit.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute / 2
	}
	return middleware.RateLimit(redisClient, limit)
}

// Setup configures the JSON API under /api/v1
func Setup(router *gin.Engine, h *Handlers, jwtManager *jwt.Manager, redisClient *redis.Client, cfg *config.Config) {
	api := router.Group("/api/v1", middleware.OptionalJWTAuth(jwtManager), middleware.CSRFProtection(true))
	authRequired := middleware.JWTAuth(jwtManager)
	write := writeLimit(redisClient, cfg)

	// Authentication
	auth := api.Group("/auth")
	auth.POST("/signup", write, h.Auth.SignUp)
	auth.POST("/signin", write, h.Auth.SignIn)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/signout", h.Auth.SignOut)
	auth.GET("/me", authRequired, h.Auth.Me)

	// Posts
	posts := api.Group("/posts")
	posts.GET("", h.Posts.ListPosts)
	posts.POST("", authRequired, write, h.Posts.CreatePost)
	posts.GET("/:id", h.Posts.GetPost)
	posts.PUT("/:id", authRequired, write, h.Posts.UpdatePost)
	posts.DELETE("/:id", authRequired, h.Posts.DeletePost)
	posts.GET("/:id/comments", h.Comments.ListComments)
	posts.POST("/:id/comments", authRequired, write, h.Comments.CreateComment)
	posts.POST("/:id/like", authRequired, write, h.Likes.TogglePostLike)

	// Comments
	comments := api.Group("/comments")
	comments.PUT("/:id", authRequired, write, h.Comments.UpdateComment)
	comments.DELETE("/:id", authRequired, h.Comments.DeleteComment)
	comments.POST("/:id/like", authRequired, write, h.Likes.ToggleCommentLike)

	// Profiles
	api.GET("/users/:id/posts", h.Posts.ListUserPosts)
	api.GET("/users/:id/profile", h.Profiles.UserProfile)
	api.GET("/me/profile", authRequired, h.Profiles.MyProfile)

	// Leaderboard
	api.GET("/top-picks", h.Leaderboard.TopPicks)

	// Live feed
	if h.WS != nil {
		api.GET("/ws/feed", h.WS.Connect)
	}
}

// SetupPages configures the server-rendered pages and their static assets
func SetupPages(router *gin.Engine, h *Handlers, jwtManager *jwt.Manager, redisClient *redis.Client, cfg *config.Config) {
	router.StaticFS("/static", http.FS(web.Static()))

	pages := router.Group("",
		middleware.OptionalJWTAuth(jwtManager),
		h.Pages.RestoreSession(),
		middleware.EnsureCSRFCookie(cfg.Server.SecureCookies),
		middleware.CSRFProtection(false),
	)
	write := writeLimit(redisClient, cfg)

	pages.GET("/", h.Pages.Index)
	pages.GET("/login", h.Pages.LoginForm)
	pages.POST("/login", write, h.Pages.Login)
	pages.GET("/register", h.Pages.RegisterForm)
	pages.POST("/register", write, h.Pages.Register)
	pages.POST("/logout", h.Pages.Logout)
	pages.GET("/create", h.Pages.CreateForm)
	pages.POST("/create", write, h.Pages.Create)
	pages.GET("/profile", h.Pages.Profile)
	pages.GET("/user", h.Pages.UserPage)

	pages.GET("/posts/:id", h.Pages.ShowPost)
	pages.POST("/posts/:id/delete", h.Pages.DeletePost)
	pages.POST("/posts/:id/like", write, h.Pages.LikePost)
	pages.POST("/posts/:id/comments", write, h.Pages.Comment)
	pages.POST("/comments/:id/like", write, h.Pages.LikeComment)
}
