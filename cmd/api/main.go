package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pickboard/pickboard-backend/internal/config"
	"github.com/pickboard/pickboard-backend/internal/database"
	"github.com/pickboard/pickboard-backend/internal/handler"
	"github.com/pickboard/pickboard-backend/internal/middleware"
	"github.com/pickboard/pickboard-backend/internal/migration"
	"github.com/pickboard/pickboard-backend/internal/repository"
	"github.com/pickboard/pickboard-backend/internal/routes"
	"github.com/pickboard/pickboard-backend/internal/service"
	"github.com/pickboard/pickboard-backend/internal/ws"
	pkgcache "github.com/pickboard/pickboard-backend/pkg/cache"
	"github.com/pickboard/pickboard-backend/pkg/jwt"
	pkglogger "github.com/pickboard/pickboard-backend/pkg/logger"
	pkgredis "github.com/pickboard/pickboard-backend/pkg/redis"
	"github.com/pickboard/pickboard-backend/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// Load config
	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to %s", cfg.Database.Driver)
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if cfg.Database.SeedDemo {
		if err := migration.SeedDemo(db); err != nil {
			pkglogger.Warn("Demo seed failed: %v", err)
		}
	}

	// Redis (optional)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}
	cacheService := pkgcache.NewService(redisClient)

	// WebSocket Hub
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	// JWT Manager
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, cacheService)
	postService := service.NewPostService(postRepo, commentRepo, likeRepo, cacheService, wsHub)
	commentService := service.NewCommentService(commentRepo, postRepo, likeRepo, wsHub)
	likeService := service.NewLikeService(likeRepo, postRepo, commentRepo, cacheService, wsHub)
	leaderboardService := service.NewLeaderboardService(postRepo, likeRepo, cacheService,
		cfg.Leaderboard.WindowDays, cfg.Leaderboard.Size)
	profileService := service.NewProfileService(userRepo, postService)

	// Handlers
	cookies := handler.CookieSettings{
		Secure:        cfg.Server.SecureCookies,
		AccessMaxAge:  cfg.JWT.ExpiresIn,
		RefreshMaxAge: cfg.JWT.RefreshIn,
	}
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService, cookies),
		Posts:       handler.NewPostHandler(postService),
		Comments:    handler.NewCommentHandler(commentService),
		Likes:       handler.NewLikeHandler(likeService),
		Leaderboard: handler.NewLeaderboardHandler(leaderboardService),
		Profiles:    handler.NewProfileHandler(profileService),
		WS:          handler.NewWSHandler(wsHub, cfg.CORS.AllowOrigins),
		Pages: handler.NewPageHandler(handler.PageServices{
			Auth:        authService,
			Posts:       postService,
			Comments:    commentService,
			Likes:       likeService,
			Leaderboard: leaderboardService,
			Profiles:    profileService,
		}, cookies),
	}

	// Router
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := web.Templates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)

	// CORS
	allowOrigins := splitAndTrim(cfg.CORS.AllowOrigins, ",")
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "X-Cache"},
		MaxAge:           12 * time.Hour,
	}))

	// Middleware
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if cfg.RateLimit.Enabled {
		limit := middleware.DefaultRateLimitConfig()
		if cfg.RateLimit.RequestsPerMinute > 0 {
			limit.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		}
		router.Use(middleware.RateLimit(redisClient, limit))
	}

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "pickboard-backend",
			"redis":   redisClient != nil,
			"clients": wsHub.ClientCount(),
			"time":    time.Now().Unix(),
		})
	})

	routes.Setup(router, handlers, jwtManager, redisClient, cfg)
	routes.SetupPages(router, handlers, jwtManager, redisClient, cfg)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "not found"}})
			return
		}
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Title": "Not Found", "Error": "Page not found."})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reportDBStats(ctx, db)

	// Start server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("Server forced to shutdown: %v", err)
	}
	wsHub.Stop()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	pkglogger.Info("Server exited")
}

// splitAndTrim splits a string by delimiter and drops empty parts
func splitAndTrim(s string, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// reportDBStats feeds the connection pool gauge until ctx is done
func reportDBStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			middleware.SetDBOpenConnections(sqlDB.Stats().OpenConnections)
		}
	}
}
