package routes

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/perguntaquedoi/api/config"
	"github.com/perguntaquedoi/api/controllers"
	"github.com/perguntaquedoi/api/lifecycle"
	"github.com/perguntaquedoi/api/middleware"
	"github.com/perguntaquedoi/api/store"
	"github.com/perguntaquedoi/api/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Record daily visits after each request
	r.Use(middleware.VisitRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	st := store.New(db, utils.Sugar)
	gen := utils.NewQuestionGenerator(
		cfg.GeneratorBaseURL,
		cfg.GeneratorAPIKey,
		cfg.GeneratorModel,
		time.Duration(cfg.GeneratorTimeoutSec)*time.Second,
	)
	provider := controllers.NewQuestionProvider(st, gen, utils.Sugar)

	authController := controllers.NewAuthController(st, cfg.DisableAnonymousSignIn)
	questionController := controllers.NewQuestionController(provider)
	responseController := controllers.NewResponseController(st)
	reactionController := controllers.NewReactionController(st)
	retry := lifecycle.RetryPolicy{
		Attempts: cfg.BoardRetryAttempts,
		Delay:    time.Duration(cfg.BoardRetryDelayMs) * time.Millisecond,
	}
	sessionController := controllers.NewSessionController(st, provider, cfg.DisableAnonymousSignIn, retry, utils.Sugar)
	statsController := controllers.NewStatsController(st)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/anonymous", authController.Anonymous)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Today's question is readable before signing in
	api.GET("/questions/today", questionController.Today)

	// Public participation counters
	api.GET("/stats", statsController.Today)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.GET("/questions/:id/responses", responseController.ListForQuestion)
	protected.POST("/responses", responseController.Create)
	protected.POST("/responses/:id/reactions", reactionController.Create)
	protected.POST("/responses/:id/flag", responseController.Flag)
	protected.GET("/users/me/responses", responseController.MyHistory)
	protected.GET("/session/state", sessionController.State)

	return r
}
