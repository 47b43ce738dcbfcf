package nutrition

import (
	"calofit-backend/internal/infrastructure/config"
	"calofit-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Index 記憶體層營養索引
// 兩個精選資料集合併為一張查表：官方層先載入、商業層後載入，
// 同鍵後載者覆蓋（last-write-wins），載入順序即信任順位。
// 啟動後唯讀，可供多請求無鎖並發查詢
type Index struct {
	records map[string]*common.NutritionRecord
}

// NewIndex 載入兩個精選資料集並建立索引
func NewIndex(cfg *config.NutritionConfig) *Index {
	idx := &Index{
		records: make(map[string]*common.NutritionRecord),
	}

	for _, entry := range loadDataset(cfg.OfficialDataset, common.TierOfficial) {
		idx.add(entry)
	}
	for _, entry := range loadDataset(cfg.CommercialDataset, common.TierCommercial) {
		idx.add(entry)
	}

	common.LogInfo("營養索引建立完成",
		zap.Int("keys", len(idx.records)),
	)
	return idx
}

func (idx *Index) add(entry datasetEntry) {
	for _, key := range entry.keys {
		idx.records[key] = entry.record
	}
}

// LookupExact 精確查表，鍵不分大小寫
func (idx *Index) LookupExact(key string) *common.NutritionRecord {
	return idx.records[common.NormalizeKey(key)]
}

// LookupPartial 模糊查表：對每個索引鍵計算位置與長度分數，取最高分
// 沒有任何鍵雙向子字串比對成立時回傳 nil
func (idx *Index) LookupPartial(query string) *common.NutritionRecord {
	query = common.NormalizeKey(query)

	var best *common.NutritionRecord
	bestScore := 0.0
	for key, record := range idx.records {
		score, ok := fuzzyScore(query, key)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = record
		}
	}
	return best
}

// Size 索引鍵數量（健康檢查用）
func (idx *Index) Size() int {
	return len(idx.records)
}
