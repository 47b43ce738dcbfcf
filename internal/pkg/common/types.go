package common

import (
	"fmt"
	"strings"
)

// SourceTier 營養資料來源層級，決定信任順位
type SourceTier string

const (
	TierOfficial    SourceTier = "official"     // 官方精選資料集（記憶體層）
	TierCommercial  SourceTier = "commercial"   // 商業產品精選資料集（記憶體層）
	TierLargeCorpus SourceTier = "large_corpus" // 大型磁碟語料庫（SQLite）
)

// Macros 每 100g 的巨量營養素，缺漏一律視為 0
type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// Micros 每 100g 的微量營養素，缺漏一律視為 0
type Micros struct {
	SugarG        float64 `json:"sugar_g"`
	FiberG        float64 `json:"fiber_g"`
	SodiumMg      float64 `json:"sodium_mg"`
	SaturatedFatG float64 `json:"saturated_fat_g"`
	CalciumMg     float64 `json:"calcium_mg"`
	IronMg        float64 `json:"iron_mg"`
	VitaminA      float64 `json:"vitamin_a"`
	VitaminC      float64 `json:"vitamin_c"`
}

// NutritionRecord 單一食物／產品的標準營養紀錄
// 載入後不再變動；查表鍵（名稱、id、別名）一律小寫
type NutritionRecord struct {
	Name       string     `json:"name"`
	Brand      string     `json:"brand,omitempty"`
	SourceTier SourceTier `json:"source_tier"`
	Macros     Macros     `json:"macros"`
	Micros     Micros     `json:"micros"`
}

// BlockKind 結構化卡片類型
type BlockKind string

const (
	BlockFood     BlockKind = "food"
	BlockExercise BlockKind = "exercise"
)

// ResponseBlock 從 LLM 回覆擷取出的一張結構化卡片（食譜或訓練）
type ResponseBlock struct {
	Kind      BlockKind `json:"kind"`
	Title     string    `json:"title"`
	Items     []string  `json:"items"`      // 食材或動作清單，保留份量（如 100g）
	Steps     []string  `json:"steps"`      // 準備或技巧步驟
	StatsText string    `json:"stats_text"` // 巨量營養素／統計摘要
	Footnote  string    `json:"footnote,omitempty"`
}

// ParsedReply 擷取管線的輸出；建構後不再變動
type ParsedReply struct {
	Intent             string          `json:"intent"` // 無標籤時預設 CHAT
	ConversationalText string          `json:"conversational_text"`
	Blocks             []ResponseBlock `json:"blocks"`
}

// DefaultIntent 回覆層級意圖的預設值
const DefaultIntent = "CHAT"

// FormatMacros 將巨量營養素格式化為統計字串（供卡片 stats_text 覆寫）
func FormatMacros(m Macros) string {
	return fmt.Sprintf("Cal: %.0fkcal | Prot: %.1fg | Carb: %.1fg | Gras: %.1fg",
		m.Calories, m.ProteinG, m.CarbsG, m.FatG)
}

// FormatRecordNames 將紀錄名稱串接為逗號分隔的字串（日誌用）
func FormatRecordNames(records []*NutritionRecord) string {
	if len(records) == 0 {
		return ""
	}
	names := make([]string, 0, len(records))
	for _, r := range records {
		if r != nil {
			names = append(names, r.Name)
		}
	}
	return strings.Join(names, ", ")
}
