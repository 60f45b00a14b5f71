package api

import (
	"time"

	"mixmate/internal/api/handlers"
	"mixmate/internal/api/handlers/health"
	recipeHandler "mixmate/internal/api/handlers/recipe"
	"mixmate/internal/api/middleware"
	"mixmate/internal/core/ai/service"
	recipeService "mixmate/internal/core/recipe"
	"mixmate/internal/infrastructure/config"
	"mixmate/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	AI       *service.Service
	Drinks   *recipeService.DrinkService
	Saved    *recipeService.SavedService
	Profiles *recipeService.ProfileService
	Storage  health.Pinger
}

// SetupRouter 設置路由，回傳的 cleanup 用於停止背景協程
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, func()) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.UserIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	var source health.StatusSource
	if deps.AI != nil {
		source = deps.AI
	}
	healthHandler := health.NewHandler(cfg.App.Version, source, deps.Storage)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(dedup.Middleware())
	{
		aiHandler := handlers.NewAIHandler(deps.Drinks)
		h := recipeHandler.NewHandler(deps.Drinks, deps.Saved, deps.Profiles)

		// 生成飲品，Mocktail 不需登入
		api.POST("/drinks/generate", middleware.OptionalUser(), h.HandleGenerateDrink)
		api.POST("/sections/extract", aiHandler.Extract)
		api.POST("/ai/complete", aiHandler.Complete)

		users := api.Group("/users", middleware.RequireUser())
		{
			users.GET("/age-verification", h.HandleGetAgeVerification)
			users.PUT("/age-verification", h.HandleSetAgeVerification)
			users.DELETE("/me", h.HandleDeleteAccount)
		}

		recipes := api.Group("/recipes", middleware.RequireUser())
		{
			recipes.GET("", h.HandleListRecipes)
			recipes.POST("", h.HandleSaveRecipe)
			recipes.GET("/:id", h.HandleGetRecipe)
			recipes.PATCH("/:id", h.HandleRenameRecipe)
			recipes.DELETE("/:id", h.HandleDeleteRecipe)
			recipes.GET("/:id/export", h.HandleExportRecipe)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		common.WriteError(c, common.ErrNotFound)
	})
	router.NoMethod(func(c *gin.Context) {
		common.WriteError(c, common.ErrMethodNotAllowed)
	})
	router.HandleMethodNotAllowed = true

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Duration("dedup_window", cfg.DedupWindow),
	)

	return router, dedup.Close
}
