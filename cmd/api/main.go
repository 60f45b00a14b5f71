package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mixmate/internal/api"
	"mixmate/internal/core/ai/cache"
	"mixmate/internal/core/ai/queue"
	"mixmate/internal/core/ai/service"
	"mixmate/internal/core/recipe"
	"mixmate/internal/core/sections"
	openrouter "mixmate/internal/core/service"
	"mixmate/internal/infrastructure/config"
	"mixmate/internal/infrastructure/storage"
	"mixmate/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LogOptions{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
	)

	// 章節擷取器
	extractor, err := newExtractor(&cfg.Sections)
	if err != nil {
		common.LogFatal("Invalid section configuration", zap.Error(err))
	}

	// 儲存層
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	store, err := storage.NewRedisStore(ctx, &cfg.Redis)
	cancel()
	if err != nil {
		common.LogFatal("Failed to connect storage", zap.Error(err))
	}
	defer store.Close()

	// 模型提供者、快取與隊列
	provider := openrouter.NewOpenRouterService(&cfg.OpenRouter)
	defer provider.Close()

	cacheManager := cache.NewManager(&cfg.Cache)
	defer cacheManager.Close()

	generationQueue := queue.NewManager(&cfg.Queue, provider.Complete)
	defer generationQueue.Close()

	aiService := service.NewService(provider, cacheManager, generationQueue)
	profiles := recipe.NewProfileService(store)

	router, cleanup := api.SetupRouter(cfg, api.Dependencies{
		AI:       aiService,
		Drinks:   recipe.NewDrinkService(aiService, extractor, profiles),
		Saved:    recipe.NewSavedService(store),
		Profiles: profiles,
		Storage:  store,
	})
	defer cleanup()

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		common.LogError("Failed to start server", zap.Error(err))
		return
	}

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}

// newExtractor 依設定建立章節擷取器，合併目標不在標題清單中時啟動失敗
func newExtractor(cfg *config.SectionsConfig) (*sections.Extractor, error) {
	opts := sections.DefaultOptions()
	opts.Titles = cfg.Titles
	opts.TrailingTitle = cfg.TrailingTitle
	opts.ConclusionAlias = cfg.ConclusionAlias
	return sections.New(opts.WithoutUnknownRules())
}
