package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"calofit-backend/internal/core/ai/service"
	"calofit-backend/internal/core/nutrition"
	"calofit-backend/internal/core/reply"
	"calofit-backend/internal/infrastructure/config"
	"calofit-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// promptTemplate 助理的固定指示：回覆走 CALOFIT 標籤協議
// 模型經常不遵守，擷取管線必須容忍各種劣化輸出
const promptTemplate = `Eres CaloFit, un asistente de nutricion y entrenamiento. Responde en espanol.
Cuando propongas una receta o una rutina, usa este formato de etiquetas:
[CALOFIT_INTENT: ITEM_RECIPE] o [CALOFIT_INTENT: ITEM_WORKOUT]
[CALOFIT_HEADER]Titulo[/CALOFIT_HEADER]
[CALOFIT_LIST]
- elemento con cantidad (100g pollo)
[/CALOFIT_LIST]
[CALOFIT_ACTION]
1. paso
[/CALOFIT_ACTION]
[CALOFIT_STATS]Cal: ... | Prot: ... | Carb: ... | Gras: ...[/CALOFIT_STATS]
[CALOFIT_FOOTER]nota opcional[/CALOFIT_FOOTER]
Para conversacion normal responde texto plano sin etiquetas.

Usuario: %s`

// ChatResult 一次對話的完整結果
type ChatResult struct {
	Reply    *common.ParsedReply `json:"reply"`
	CacheHit bool                `json:"cache_hit"`
}

// ValidationResult 單一名稱的驗證結果
type ValidationResult struct {
	Name   string                  `json:"name"`
	Found  bool                    `json:"found"`
	Record *common.NutritionRecord `json:"record,omitempty"`
}

// Service 助理服務：prompt 組裝、模型呼叫、回覆擷取、營養校正
type Service struct {
	config   *config.Config
	ai       *service.Service
	resolver *nutrition.Resolver
}

// NewService 創建助理服務
func NewService(cfg *config.Config, ai *service.Service, resolver *nutrition.Resolver) *Service {
	return &Service{
		config:   cfg,
		ai:       ai,
		resolver: resolver,
	}
}

// Chat 處理一則使用者訊息
// 模型給的營養數字不可信，食物卡片的統計一律以解析引擎查到的紀錄覆寫
func (s *Service) Chat(ctx context.Context, message string) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, common.ErrEmptyMessage
	}

	prompt := fmt.Sprintf(promptTemplate, strings.TrimSpace(message))

	resp, err := s.ai.ProcessRequest(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed := reply.Parse(resp.Content)
	s.correctMacros(parsed)

	common.LogInfo("對話處理完成",
		zap.String("intent", parsed.Intent),
		zap.Int("blocks", len(parsed.Blocks)),
		zap.Bool("cache_hit", resp.CacheHit),
	)
	return &ChatResult{
		Reply:    parsed,
		CacheHit: resp.CacheHit,
	}, nil
}

// ParseReply 直接對外的擷取入口（除錯與回歸比對用）
func (s *Service) ParseReply(raw string) *common.ParsedReply {
	parsed := reply.Parse(raw)
	s.correctMacros(parsed)
	return parsed
}

// correctMacros 以標題解析到的紀錄覆寫食物卡片的統計文字
func (s *Service) correctMacros(parsed *common.ParsedReply) {
	for i := range parsed.Blocks {
		block := &parsed.Blocks[i]
		if block.Kind != common.BlockFood {
			continue
		}
		record := s.resolver.Resolve(block.Title)
		if record == nil {
			continue
		}
		block.StatsText = common.FormatMacros(record.Macros)
	}
}

// ValidateNames 批次驗證食物名稱
// 走工作池併發查快速路徑（不碰語料庫 I/O），結果保持輸入順序
func (s *Service) ValidateNames(ctx context.Context, names []string) ([]ValidationResult, error) {
	if len(names) == 0 {
		return []ValidationResult{}, nil
	}
	if len(names) > s.config.Queue.MaxSize {
		return nil, common.ErrTooManyNames
	}

	results := make([]ValidationResult, len(names))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := s.config.Queue.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(names) {
		workers = len(names)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				record := s.resolver.ResolveFast(names[i])
				results[i] = ValidationResult{
					Name:   names[i],
					Found:  record != nil,
					Record: record,
				}
			}
		}()
	}

	for i := range names {
		select {
		case jobs <- i:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	return results, nil
}
