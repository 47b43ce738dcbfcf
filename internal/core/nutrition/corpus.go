package nutrition

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "modernc.org/sqlite"

	"calofit-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// 語料庫欄位以公克儲存的微量營養素換算為毫克／慣用單位的固定倍率
const (
	gramsToMilligrams = 1000
	vitaminAUnits     = 10000
)

// corpusColumns 大型語料庫的固定欄位順序，掃描時按位置對應
const corpusColumns = `id, nombre, marca, calorias, proteinas, carbohidratos, azucar, grasas,
	grasas_saturadas, grasas_trans, grasas_mono, grasas_poli, fibra, sodio, calcio, hierro,
	vitamina_a, vitamina_c, pais`

// Corpus 大型磁碟語料庫查詢層（數十萬列，SQLite 索引）
// 結果快取與未命中快取存活整個行程；磁碟查詢一律在鎖外執行，
// 競態下最壞情況是重複查一次磁碟，不會產生錯誤資料
type Corpus struct {
	db *sql.DB

	mu    sync.RWMutex
	cache map[string]*common.NutritionRecord // nil 值代表明確未命中
}

// OpenCorpus 開啟語料庫；檔案缺失回傳 nil（覆蓋率下降，不中斷啟動）
func OpenCorpus(path string) *Corpus {
	// sqlite 驅動會自動建立空檔案，先確認檔案存在
	if _, err := os.Stat(path); err != nil {
		common.LogWarn("語料庫檔案缺失，僅使用記憶體層",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		common.LogWarn("語料庫無法開啟，僅使用記憶體層",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil
	}
	if err := db.Ping(); err != nil {
		common.LogWarn("語料庫無法連線，僅使用記憶體層",
			zap.String("path", path),
			zap.Error(err),
		)
		db.Close()
		return nil
	}

	common.LogInfo("語料庫已開啟",
		zap.String("path", path),
	)
	return &Corpus{
		db:    db,
		cache: make(map[string]*common.NutritionRecord),
	}
}

// Close 關閉語料庫連線
func (c *Corpus) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup 查詢語料庫
// 先查行程快取（含明確未命中）；未快取時先做前綴搜尋，
// 落空再做子字串搜尋，兩者都以熱量遞減排序取第一筆——
// 同樣符合的列之間偏好熱量最高者，較可能是完整的真實食物列
// 而非稀疏或佔位列。查詢錯誤視為未命中，不向上傳遞
func (c *Corpus) Lookup(key string) *common.NutritionRecord {
	if c == nil || c.db == nil {
		return nil
	}
	key = common.NormalizeKey(key)

	c.mu.RLock()
	record, cached := c.cache[key]
	c.mu.RUnlock()
	if cached {
		return record
	}

	// 磁碟查詢在鎖外執行，不阻塞其他查詢
	record, err := c.queryBest(key + "%")
	if err == nil && record == nil {
		record, err = c.queryBest("%" + key + "%")
	}
	if err != nil {
		common.LogWarn("語料庫查詢失敗，視為未命中",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil
	}

	c.mu.Lock()
	c.cache[key] = record
	c.mu.Unlock()

	return record
}

// queryBest 以 LIKE 模式查一筆，熱量遞減排序
func (c *Corpus) queryBest(pattern string) (*common.NutritionRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM alimentos_corpus WHERE nombre LIKE ? ORDER BY calorias DESC LIMIT 1`, corpusColumns)

	var (
		id, name, brand, country                          string
		calories, protein, carbs, sugar, fat              float64
		satFat, transFat, monoFat, polyFat, fiber, sodium float64
		calcium, iron, vitaminA, vitaminC                 float64
	)
	err := c.db.QueryRow(query, pattern).Scan(
		&id, &name, &brand, &calories, &protein, &carbs, &sugar, &fat,
		&satFat, &transFat, &monoFat, &polyFat, &fiber, &sodium, &calcium, &iron,
		&vitaminA, &vitaminC, &country,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("corpus query: %w", err)
	}

	return &common.NutritionRecord{
		Name:       name,
		Brand:      brand,
		SourceTier: common.TierLargeCorpus,
		Macros: common.Macros{
			Calories: calories,
			ProteinG: protein,
			CarbsG:   carbs,
			FatG:     fat,
		},
		Micros: common.Micros{
			SugarG:        sugar,
			FiberG:        fiber,
			SodiumMg:      sodium * gramsToMilligrams,
			SaturatedFatG: satFat,
			CalciumMg:     calcium * gramsToMilligrams,
			IronMg:        iron * gramsToMilligrams,
			VitaminA:      vitaminA * vitaminAUnits,
			VitaminC:      vitaminC * gramsToMilligrams,
		},
	}, nil
}

// CacheSize 快取筆數（健康檢查用）
func (c *Corpus) CacheSize() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
