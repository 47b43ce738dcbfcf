// Package reply 將 LLM 回覆文字擷取為結構化卡片與乾淨的對話文字
// 回覆理應遵守 CALOFIT 標籤協議，但經常不遵守；
// 有 HEADER 標籤走協議路徑，否則落入 legacy 啟發式解析
package reply

import (
	"regexp"
	"strings"

	"calofit-backend/internal/pkg/common"
)

// CALOFIT 標籤協議的分隔標籤
const (
	tagHeader = "CALOFIT_HEADER"
	tagStats  = "CALOFIT_STATS"
	tagList   = "CALOFIT_LIST"
	tagAction = "CALOFIT_ACTION"
	tagFooter = "CALOFIT_FOOTER"
)

var (
	// 意圖標籤形如 [CALOFIT_INTENT: ITEM_WORKOUT]
	intentTagRe  = regexp.MustCompile(`(?i)\[CALOFIT_INTENT:\s*([A-Z_]+)\s*\]`)
	headerOpenRe = regexp.MustCompile(`(?i)\[CALOFIT_HEADER\]`)

	// 意圖與 HEADER 標籤是切分點，其他標籤留在段落內由 tagSpan 取出
	delimiterRe = regexp.MustCompile(`(?i)\[CALOFIT_INTENT:\s*[A-Z_]+\s*\]|\[CALOFIT_HEADER\]`)
)

// tagSpan 取出 [TAG]...[/TAG] 之間的內容，不分大小寫
// 標籤不成對（缺開或缺閉）一律回傳空字串，不是錯誤
func tagSpan(text, tag string) string {
	open := "[" + tag + "]"
	closing := "[/" + tag + "]"

	start := common.IndexFold(text, open)
	if start < 0 {
		return ""
	}
	start += len(open)

	end := common.IndexFold(text[start:], closing)
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(text[start : start+end])
}

// removeTagPairs 清掉段落內殘留的 [TAG]／[/TAG] 標記，留下純文字
func removeTagPairs(text string) string {
	for _, tag := range []string{tagHeader, tagStats, tagList, tagAction, tagFooter} {
		text = removeFold(text, "["+tag+"]")
		text = removeFold(text, "[/"+tag+"]")
	}
	return text
}

// removeFold 不分大小寫移除所有出現
func removeFold(s, sub string) string {
	for {
		idx := common.IndexFold(s, sub)
		if idx < 0 {
			return s
		}
		s = s[:idx] + s[idx+len(sub):]
	}
}

// delimKind 切分點類型
type delimKind int

const (
	delimIntent delimKind = iota
	delimHeader
)

// segment 一個切分點與其後到下一個切分點為止的內容
type segment struct {
	kind    delimKind
	intent  string // kind == delimIntent 時的意圖值
	content string
}

// splitSegments 以意圖與 HEADER 標籤為切分點拆段
// 回傳（第一個切分點之前的前導文字, 段落列表）
func splitSegments(text string) (string, []segment) {
	locs := delimiterRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text, nil
	}

	leading := text[:locs[0][0]]
	segments := make([]segment, 0, len(locs))
	for i, loc := range locs {
		raw := text[loc[0]:loc[1]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}

		seg := segment{content: text[loc[1]:end]}
		if m := intentTagRe.FindStringSubmatch(raw); m != nil {
			seg.kind = delimIntent
			seg.intent = strings.ToUpper(m[1])
		} else {
			seg.kind = delimHeader
		}
		segments = append(segments, seg)
	}
	return leading, segments
}
