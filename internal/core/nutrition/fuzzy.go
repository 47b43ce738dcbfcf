package nutrition

import (
	"strings"
)

// minKeyLength 短於此長度的鍵不參與模糊比對，避免單字母誤中
const minKeyLength = 3

// fuzzyScore 計算查詢與索引鍵的部分比對分數
// 鍵是查詢的子字串、或查詢是鍵的子字串（依此順序檢查）才算比對成立；
// 分數 = 1000/(位置+1) + len(鍵)，位置越前、鍵越長分數越高，
// 讓「orange juice」這類較長的菜名鍵勝過「orange」單一食材鍵。
// 公式與門檻為既有調校結果，勿更動
func fuzzyScore(query, key string) (float64, bool) {
	if len(key) < minKeyLength {
		return 0, false
	}

	pos := strings.Index(query, key)
	if pos < 0 {
		pos = strings.Index(key, query)
		if pos < 0 {
			return 0, false
		}
	}

	return 1000.0/float64(pos+1) + float64(len(key)), true
}
