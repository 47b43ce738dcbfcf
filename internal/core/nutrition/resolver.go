package nutrition

import (
	"strings"
	"sync"

	"calofit-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// corpusMinKeyLength 短鍵不進語料庫，前綴／子字串搜尋會炸出大量噪音
const corpusMinKeyLength = 3

// Resolver 營養解析門面
// 流程：同義詞標準化 → 精確查表 → 模糊查表 → 語料庫回退 → 記錄未命中
// 未命中快取只進不出，存活整個行程（接受的取捨，不是洩漏）
type Resolver struct {
	index  *Index
	corpus *Corpus

	mu       sync.RWMutex
	notFound map[string]struct{}
}

// NewResolver 創建營養解析門面
func NewResolver(index *Index, corpus *Corpus) *Resolver {
	return &Resolver{
		index:    index,
		corpus:   corpus,
		notFound: make(map[string]struct{}),
	}
}

// Resolve 將自由文字食物名稱解析為標準營養紀錄，找不到回傳 nil
// 任何內部錯誤（資料集缺失、語料庫讀取失敗）都不會越過此邊界
func (r *Resolver) Resolve(name string) *common.NutritionRecord {
	return r.resolve(name, true)
}

// ResolveFast 只查記憶體層，跳過語料庫 I/O
// 批次驗證大量名稱時使用
func (r *Resolver) ResolveFast(name string) *common.NutritionRecord {
	return r.resolve(name, false)
}

func (r *Resolver) resolve(name string, allowCorpus bool) *common.NutritionRecord {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	normalized := common.NormalizeKey(Normalize(name))

	// 已證實查不到的名稱直接短路
	r.mu.RLock()
	_, known := r.notFound[normalized]
	r.mu.RUnlock()
	if known {
		return nil
	}

	if record := r.index.LookupExact(normalized); record != nil {
		return record
	}
	if record := r.index.LookupPartial(normalized); record != nil {
		return record
	}

	if allowCorpus && len(normalized) > corpusMinKeyLength {
		if record := r.corpus.Lookup(normalized); record != nil {
			return record
		}
	}

	r.mu.Lock()
	r.notFound[normalized] = struct{}{}
	r.mu.Unlock()

	common.LogDebug("名稱無法解析，加入未命中快取",
		zap.String("name", normalized),
	)
	return nil
}

// NotFoundCount 未命中快取筆數（健康檢查用）
func (r *Resolver) NotFoundCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notFound)
}
