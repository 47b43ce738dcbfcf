package reply

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// 清單項目的前導符號：- * • · 或 1. 1)
	bulletMarkerRe = regexp.MustCompile(`^\s*(?:[-*•·]|\d+[.)])\s*`)
	bulletLineRe   = regexp.MustCompile(`^\s*[-*•·]\s+`)
	numberedLineRe = regexp.MustCompile(`^\s*\d+[.)]\s+`)

	// 單獨成行的區段標籤（如只有 "Ingredientes:" 的行）不是真正的項目
	bareLabelRe = regexp.MustCompile(`(?i)^\s*(ingredientes?|ingredients?|pasos|steps|preparaci[oó]n|ejercicios?|materiales|aporte|macros)\s*:?\s*$`)

	// 標題的 "Option N:" / "Plato N:" / "Rutina N:" 式前綴
	titlePrefixRe = regexp.MustCompile(`(?i)^\s*(?:option|opci[oó]n|plato|plate|rutina|routine|receta|dia|d[ií]a)\s*\d+\s*[:.\-]\s*`)

	// 統計文字中的括號註記
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)

	// 黏在敘述後面的清單符號，前面補換行讓壓成一行的清單恢復可讀
	gluedBulletRe   = regexp.MustCompile(`([^\n])[ \t]+([-•*][ \t])`)
	gluedNumberedRe = regexp.MustCompile(`([^\n])[ \t]+(\d+[.)][ \t])`)

	// 模型偶爾在開頭吐出的格式／角色標記
	leadingMarkerRe = regexp.MustCompile(`(?i)^\s*(?:(?:assistant|asistente|bot|system)\s*:|\x60{3}[a-z]*|[#*]{2,})\s*`)

	multiBlankRe = regexp.MustCompile(`\n{3,}`)
	multiSpaceRe = regexp.MustCompile(`[ \t]{2,}`)
)

// parseItems 將清單內容逐行轉為項目
// 去掉前導符號但保留份量（"- 100g arroz" → "100g arroz"）；
// 單獨成行的區段標籤捨棄
func parseItems(content string) []string {
	var items []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || bareLabelRe.MatchString(line) {
			continue
		}
		item := strings.TrimSpace(bulletMarkerRe.ReplaceAllString(line, ""))
		if item != "" && !bareLabelRe.MatchString(item) {
			items = append(items, item)
		}
	}
	return items
}

// scanMarkedLines 無標籤時的回退：掃描整段中符合符號樣式的行
func scanMarkedLines(content string, marker *regexp.Regexp) []string {
	var items []string
	for _, line := range strings.Split(content, "\n") {
		if !marker.MatchString(line) {
			continue
		}
		item := strings.TrimSpace(bulletMarkerRe.ReplaceAllString(strings.TrimSpace(line), ""))
		if item != "" && !bareLabelRe.MatchString(item) {
			items = append(items, item)
		}
	}
	return items
}

// cleanStats 清理統計摘要：去括號註記、去結尾裝飾符號
func cleanStats(stats string) string {
	stats = parentheticalRe.ReplaceAllString(stats, "")
	stats = strings.TrimRightFunc(stats, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.Is(unicode.So, r) || r == '!' || r == '~'
	})
	return strings.TrimSpace(stats)
}

// cleanTitle 去掉 "Option N:" 式的編號前綴
func cleanTitle(title string) string {
	return strings.TrimSpace(titlePrefixRe.ReplaceAllString(strings.TrimSpace(title), ""))
}

// tidyConversational 對話文字的最終整理
// 卡片標題不得殘留在敘述中（名稱出現兩次很難看），
// 黏住的清單符號前補換行，最後收斂空白
func tidyConversational(text string, blockTitles []string) string {
	text = leadingMarkerRe.ReplaceAllString(text, "")

	for _, title := range blockTitles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		text = removeFold(text, title)
	}

	text = gluedBulletRe.ReplaceAllString(text, "$1\n$2")
	text = gluedNumberedRe.ReplaceAllString(text, "$1\n$2")

	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = multiBlankRe.ReplaceAllString(text, "\n\n")

	// 收掉行尾殘餘空白
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
