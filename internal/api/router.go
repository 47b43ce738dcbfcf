package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	assistantHandler "calofit-backend/internal/api/handlers/assistant"
	"calofit-backend/internal/api/handlers/health"
	nutritionHandler "calofit-backend/internal/api/handlers/nutrition"
	"calofit-backend/internal/api/middleware"
	"calofit-backend/internal/core/ai/cache"
	"calofit-backend/internal/core/ai/openrouter"
	"calofit-backend/internal/core/ai/service"
	coreAssistant "calofit-backend/internal/core/assistant"
	"calofit-backend/internal/core/nutrition"
	"calofit-backend/internal/infrastructure/config"
	"calofit-backend/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB，純文字 API 不需要更多)
	maxBodySize = 1 << 20
)

// Dependencies 路由所需的核心元件，由 main 建立並負責生命週期
type Dependencies struct {
	Index        *nutrition.Index
	Corpus       *nutrition.Corpus
	Resolver     *nutrition.Resolver
	CacheManager *cache.CacheManager
	RedisCache   *cache.Service
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps *Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if deps == nil || deps.Index == nil || deps.Resolver == nil {
		return nil, fmt.Errorf("nutrition engine dependencies are required")
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("queue_workers", cfg.Queue.Workers),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Int("index_size", deps.Index.Size()),
	)

	// 初始化服務
	client := openrouter.NewClient(cfg)
	aiService := service.NewService(cfg, client, deps.CacheManager, deps.RedisCache)
	assistantSvc := coreAssistant.NewService(cfg, aiService, deps.Resolver)

	nutritionStatus := health.StatusFunc(deps.Index, deps.Corpus, deps.Resolver)

	// 全局中間件：設置超時和健康檢查狀態
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("nutrition_status", nutritionStatus)
		c.Set("cache_stats", deps.CacheManager.GetStats)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	api.Use(middleware.Deduplication(cfg))
	{
		nutritionHandlerInstance := nutritionHandler.NewHandler(deps.Resolver, assistantSvc)
		assistantHandlerInstance := assistantHandler.NewHandler(assistantSvc)

		nutritionGroup := api.Group("/nutrition")
		{
			// 單一名稱解析
			nutritionGroup.POST("/resolve", nutritionHandlerInstance.HandleResolve)

			// 批次名稱驗證
			nutritionGroup.POST("/validate", nutritionHandlerInstance.HandleValidate)
		}

		assistantGroup := api.Group("/assistant")
		{
			// 對話
			assistantGroup.POST("/chat", assistantHandlerInstance.HandleChat)

			// 回覆擷取（不經過模型）
			assistantGroup.POST("/parse", assistantHandlerInstance.HandleParse)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
