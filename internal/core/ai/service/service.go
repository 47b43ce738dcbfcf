package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"calofit-backend/internal/core/ai/cache"
	"calofit-backend/internal/core/ai/provider"
	"calofit-backend/internal/infrastructure/config"
	"calofit-backend/internal/pkg/common"
)

// Response AI 回應結構
type Response struct {
	Content  string
	CacheHit bool
}

// Service AI 服務
// 快取鍵以正規化後的 prompt 計算，同義請求共用同一份回覆
type Service struct {
	config       *config.Config
	provider     provider.Provider
	cacheManager *cache.CacheManager
	redisCache   *cache.Service
	mu           sync.Mutex
	lastRequest  time.Time
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, p provider.Provider, cacheManager *cache.CacheManager, redisCache *cache.Service) *Service {
	return &Service{
		config:       cfg,
		provider:     p,
		cacheManager: cacheManager,
		redisCache:   redisCache,
	}
}

// ProcessRequest 統一對外方法
// 查記憶體快取 → 查 Redis → 呼叫模型，命中往上層回填
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	if err := s.checkRequestRate(); err != nil {
		return nil, err
	}

	// 統一 prompt 格式，確保快取 key 一致
	cacheKey := normalizePrompt(prompt)

	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, cacheKey); err == nil && val != "" {
			return &Response{Content: val, CacheHit: true}, nil
		}
	}

	if s.config.Cache.RedisEnabled && s.redisCache != nil {
		if val, err := s.redisCache.Get(ctx, cacheKey); err == nil && val != "" {
			if s.cacheManager != nil {
				_ = s.cacheManager.Set(ctx, cacheKey, val)
			}
			return &Response{Content: val, CacheHit: true}, nil
		}
	}

	resp, err := s.provider.Generate(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens: s.config.OpenRouter.MaxTokens,
	})
	if err != nil {
		return nil, common.NewError(common.ErrAIServiceError.Code, common.ErrAIServiceError.Message, common.ErrAIServiceError.Status, err)
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, cacheKey, resp.Content)
	}
	if s.config.Cache.RedisEnabled && s.redisCache != nil {
		_ = s.redisCache.Set(ctx, cacheKey, resp.Content)
	}

	return &Response{Content: resp.Content}, nil
}

// checkRequestRate 檢查請求頻率
func (s *Service) checkRequestRate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.config.RateLimit.Enabled && s.config.RateLimit.Requests > 0 {
		interval := s.config.RateLimit.Window / time.Duration(s.config.RateLimit.Requests)
		if now.Sub(s.lastRequest) < interval {
			return errors.New("request rate limit exceeded")
		}
	}

	s.lastRequest = now
	return nil
}

// normalizePrompt 去除空白差異，讓語意相同的 prompt 共用快取
func normalizePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	return strings.Join(strings.Fields(prompt), " ")
}
