package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"calofit-backend/internal/infrastructure/config"
	"calofit-backend/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Service Redis 第二層快取，多實例部署時共享回覆
type Service struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewService 創建緩存服務
func NewService(cfg *config.CacheConfig) (*Service, error) {
	if !cfg.RedisEnabled {
		return &Service{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線",
		zap.String("addr", cfg.RedisAddr),
	)
	return &Service{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存
func (s *Service) Get(ctx context.Context, prompt string) (string, error) {
	if s == nil || s.client == nil {
		return "", common.ErrCacheDisabled
	}

	key := s.generateKey(prompt)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			common.LogCacheMiss("redis", key)
			return "", common.ErrCacheDisabled
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit("redis", key)
	return data, nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, prompt, value string) error {
	if s == nil || s.client == nil {
		return nil
	}

	key := s.generateKey(prompt)
	if err := s.client.Set(ctx, key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (s *Service) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// generateKey 生成緩存鍵
func (s *Service) generateKey(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return "ai:reply:" + hex.EncodeToString(hash[:])
}
