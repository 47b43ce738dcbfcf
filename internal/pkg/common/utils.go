package common

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// WriteErrorResponse 寫入錯誤響應
func WriteErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// ParseFlexFloat 將可能帶地區格式的數值字串轉為 float64
// 歷史資料集同時存在小數點與小數逗號兩種寫法，缺漏或無法解析一律回傳 0
func ParseFlexFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// NormalizeKey 將查表鍵標準化：去前後空白並轉小寫
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ContainsFold 不分大小寫的子字串判斷
func ContainsFold(s, substr string) bool {
	return IndexFold(s, substr) >= 0
}

// IndexFold 不分大小寫的子字串位置，找不到回傳 -1
func IndexFold(s, substr string) int {
	if substr == "" {
		return 0
	}
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
