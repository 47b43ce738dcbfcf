package health

import (
	"net/http"
	"runtime"
	"time"

	"calofit-backend/internal/core/nutrition"
	"calofit-backend/internal/infrastructure/config"
	"calofit-backend/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Nutrition *NutritionStatus       `json:"nutrition,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// NutritionStatus 營養解析引擎狀態
type NutritionStatus struct {
	IndexSize       int  `json:"index_size"`
	CorpusAvailable bool `json:"corpus_available"`
	CorpusCacheSize int  `json:"corpus_cache_size"`
	NotFoundCached  int  `json:"not_found_cached"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	appConfig, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   appConfig.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if v, ok := c.Get("nutrition_status"); ok {
		if fn, ok := v.(func() *NutritionStatus); ok {
			response.Nutrition = fn()
		}
	}
	if v, ok := c.Get("cache_stats"); ok {
		if fn, ok := v.(func() map[string]interface{}); ok {
			response.Cache = fn()
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// StatusFunc 組裝健康檢查用的狀態回呼
func StatusFunc(index *nutrition.Index, corpus *nutrition.Corpus, resolver *nutrition.Resolver) func() *NutritionStatus {
	return func() *NutritionStatus {
		return &NutritionStatus{
			IndexSize:       index.Size(),
			CorpusAvailable: corpus != nil,
			CorpusCacheSize: corpus.CacheSize(),
			NotFoundCached:  resolver.NotFoundCount(),
		}
	}
}

// ReadinessCheck 就緒檢查處理器
func ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
