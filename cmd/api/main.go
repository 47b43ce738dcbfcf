package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calofit-backend/internal/api"
	"calofit-backend/internal/core/ai/cache"
	"calofit-backend/internal/core/nutrition"
	"calofit-backend/internal/infrastructure/config"
	"calofit-backend/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("official_dataset", cfg.Nutrition.OfficialDataset),
		zap.String("corpus_path", cfg.Nutrition.CorpusPath),
	)

	// 建立營養解析引擎
	index := nutrition.NewIndex(&cfg.Nutrition)
	var corpus *nutrition.Corpus
	if cfg.Nutrition.CorpusEnabled {
		corpus = nutrition.OpenCorpus(cfg.Nutrition.CorpusPath)
	}
	defer corpus.Close()
	resolver := nutrition.NewResolver(index, corpus)

	// 初始化快取
	cacheManager := cache.NewManager(cfg)
	if cfg.Cache.Enabled && cacheManager == nil {
		common.LogFatal("Failed to initialize cache manager")
	}
	defer cacheManager.Close()

	redisCache, err := cache.NewService(&cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize Redis cache", zap.Error(err))
	}
	defer redisCache.Close()

	// 設置路由
	router, err := api.SetupRouter(cfg, &api.Dependencies{
		Index:        index,
		Corpus:       corpus,
		Resolver:     resolver,
		CacheManager: cacheManager,
		RedisCache:   redisCache,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
