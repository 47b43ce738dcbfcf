package nutrition

import (
	"os"

	"calofit-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// 精選資料集的欄位鍵在不同年代的匯出格式中拼法不一，
// 載入時依序嘗試各別名，第一個存在的鍵生效
var (
	nameKeys     = []string{"name", "nombre"}
	idKeys       = []string{"id", "codigo"}
	aliasKeys    = []string{"aliases", "alias", "sinonimos"}
	caloriesKeys = []string{"calories", "calorias", "calorias_100g", "kcal"}
	proteinKeys  = []string{"protein_g", "proteinas", "proteinas_100g"}
	carbsKeys    = []string{"carbs_g", "carbohidratos", "carbohidratos_100g"}
	fatKeys      = []string{"fat_g", "grasas", "grasas_100g"}
	sugarKeys    = []string{"sugar_g", "azucar", "azucares"}
	fiberKeys    = []string{"fiber_g", "fibra"}
	sodiumKeys   = []string{"sodium_mg", "sodio"}
	satFatKeys   = []string{"saturated_fat_g", "grasas_saturadas"}
	calciumKeys  = []string{"calcium_mg", "calcio"}
	ironKeys     = []string{"iron_mg", "hierro"}
	vitaminAKeys = []string{"vitamin_a", "vitamina_a"}
	vitaminCKeys = []string{"vitamin_c", "vitamina_c"}
	brandKeys    = []string{"brand", "marca"}
)

// loadDataset 讀取一份精選資料集並轉為標準紀錄
// 檔案缺失或格式錯誤只記錄日誌，回傳空集合（覆蓋率下降，不中斷啟動）
func loadDataset(path string, tier common.SourceTier) []datasetEntry {
	f, err := os.Open(path)
	if err != nil {
		common.LogWarn("資料集缺失，索引覆蓋率下降",
			zap.String("path", path),
			zap.String("tier", string(tier)),
			zap.Error(err),
		)
		return nil
	}
	defer f.Close()

	var rows []map[string]interface{}
	if err := common.DecodeJSON(f, &rows); err != nil {
		common.LogWarn("資料集格式無法解析",
			zap.String("path", path),
			zap.String("tier", string(tier)),
			zap.Error(err),
		)
		return nil
	}

	entries := make([]datasetEntry, 0, len(rows))
	for _, row := range rows {
		entry, ok := mapRow(row, tier)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}

	common.LogInfo("資料集載入完成",
		zap.String("path", path),
		zap.String("tier", string(tier)),
		zap.Int("entries", len(entries)),
	)
	return entries
}

// datasetEntry 一筆紀錄與其全部查表鍵
type datasetEntry struct {
	keys   []string
	record *common.NutritionRecord
}

// mapRow 將單列動態資料轉為標準紀錄；未知欄位預設 0（政策見 zeroForMissing）
func mapRow(row map[string]interface{}, tier common.SourceTier) (datasetEntry, bool) {
	name, ok := firstString(row, nameKeys)
	if !ok || name == "" {
		return datasetEntry{}, false
	}

	record := &common.NutritionRecord{
		Name:       name,
		SourceTier: tier,
		Macros: common.Macros{
			Calories: firstFloat(row, caloriesKeys),
			ProteinG: firstFloat(row, proteinKeys),
			CarbsG:   firstFloat(row, carbsKeys),
			FatG:     firstFloat(row, fatKeys),
		},
		Micros: common.Micros{
			SugarG:        firstFloat(row, sugarKeys),
			FiberG:        firstFloat(row, fiberKeys),
			SodiumMg:      firstFloat(row, sodiumKeys),
			SaturatedFatG: firstFloat(row, satFatKeys),
			CalciumMg:     firstFloat(row, calciumKeys),
			IronMg:        firstFloat(row, ironKeys),
			VitaminA:      firstFloat(row, vitaminAKeys),
			VitaminC:      firstFloat(row, vitaminCKeys),
		},
	}
	if brand, ok := firstString(row, brandKeys); ok {
		record.Brand = brand
	}

	keys := []string{common.NormalizeKey(name)}
	if id, ok := firstString(row, idKeys); ok && id != "" {
		keys = append(keys, common.NormalizeKey(id))
	}
	for _, alias := range firstStringSlice(row, aliasKeys) {
		if alias != "" {
			keys = append(keys, common.NormalizeKey(alias))
		}
	}

	return datasetEntry{keys: keys, record: record}, true
}

// zeroForMissing 缺漏欄位一律視為 0 而非未知，維持既有行為
const zeroForMissing = 0.0

func firstString(row map[string]interface{}, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

func firstFloat(row map[string]interface{}, keys []string) float64 {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			return common.ParseFlexFloat(v)
		}
	}
	return zeroForMissing
}

func firstStringSlice(row map[string]interface{}, keys []string) []string {
	for _, k := range keys {
		v, ok := row[k]
		if !ok {
			continue
		}
		raw, ok := v.([]interface{})
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
