package nutrition

import (
	"strings"
)

// synonym 地區性食物名稱改寫規則
type synonym struct {
	regional  string
	canonical string
}

// synonymTable 依宣告順序套用；canonical 不得包含任何 regional 子字串，
// 否則 Normalize 會失去冪等性
var synonymTable = []synonym{
	{"palta", "aguacate"},
	{"jitomate", "tomate"},
	{"choclo", "maiz"},
	{"elote", "maiz"},
	{"frutilla", "fresa"},
	{"poroto", "frijol"},
	{"alubia", "frijol"},
	{"betabel", "remolacha"},
	{"camote", "batata"},
	{"durazno", "melocoton"},
	{"zapallo", "calabaza"},
	{"banano", "platano"},
}

// Normalize 將查詢中的地區性名稱改寫為標準名稱
// 純函數且冪等：對已標準化的文字再套用一次不會有任何變化
func Normalize(text string) string {
	for _, syn := range synonymTable {
		text = replaceFold(text, syn.regional, syn.canonical)
	}
	return text
}

// replaceFold 不分大小寫的全部替換
func replaceFold(s, old, new string) string {
	if old == "" {
		return s
	}
	lower := strings.ToLower(s)
	oldLower := strings.ToLower(old)

	var sb strings.Builder
	start := 0
	for {
		idx := strings.Index(lower[start:], oldLower)
		if idx < 0 {
			sb.WriteString(s[start:])
			return sb.String()
		}
		idx += start
		sb.WriteString(s[start:idx])
		sb.WriteString(new)
		start = idx + len(old)
	}
}
