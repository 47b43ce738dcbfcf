package reply

import (
	"strings"

	"calofit-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// Parse 擷取管線入口
// 任何輸入都會產出合法的 ParsedReply，絕不回傳錯誤：
// 空輸入給空回覆，無 HEADER 標籤走 legacy 啟發式，
// 協議半殘（標籤不成對、意圖黏在卡片前）也照樣擷取
func Parse(raw string) *common.ParsedReply {
	if strings.TrimSpace(raw) == "" {
		return &common.ParsedReply{
			Intent: common.DefaultIntent,
			Blocks: []common.ResponseBlock{},
		}
	}

	intent := common.DefaultIntent
	if m := intentTagRe.FindStringSubmatch(raw); m != nil {
		intent = strings.ToUpper(m[1])
	}

	// 完全沒有 HEADER 標籤的回覆不是協議輸出，交給行導向解析
	if !headerOpenRe.MatchString(raw) {
		stripped := intentTagRe.ReplaceAllString(raw, "")
		return parseLegacy(stripped, intent)
	}

	leading, segments := splitSegments(raw)

	var (
		blocks         []common.ResponseBlock
		conversational []string
		pendingIntent  string
	)
	if text := strings.TrimSpace(leading); text != "" {
		conversational = append(conversational, text)
	}

	for _, seg := range segments {
		if seg.kind == delimIntent {
			// 最近一個意圖標籤同時作為下一張卡片的區塊層級意圖；
			// 段落內若有文字則歸入對話
			pendingIntent = seg.intent
			if text := strings.TrimSpace(seg.content); text != "" {
				conversational = append(conversational, cleanSegmentText(text))
			}
			continue
		}

		block, ok := buildBlock(seg.content, pendingIntent)
		pendingIntent = ""
		if ok {
			blocks = append(blocks, block)
		}
	}

	blocks = dedupeBlocks(blocks)

	titles := make([]string, 0, len(blocks))
	for _, b := range blocks {
		titles = append(titles, b.Title)
	}
	text := tidyConversational(strings.Join(conversational, "\n"), titles)

	common.LogDebug("回覆擷取完成",
		zap.String("intent", intent),
		zap.Int("blocks", len(blocks)),
	)
	if blocks == nil {
		blocks = []common.ResponseBlock{}
	}
	return &common.ParsedReply{
		Intent:             intent,
		ConversationalText: text,
		Blocks:             blocks,
	}
}

// buildBlock 將一個 HEADER 段落轉為卡片
// 標題是開標籤到閉標籤之間的文字；閉標籤缺失時標題視為空
// 既無標題又無 LIST 區段的段落是噪音，捨棄
func buildBlock(content, blockIntent string) (common.ResponseBlock, bool) {
	var rawTitle string
	if end := common.IndexFold(content, "[/"+tagHeader+"]"); end >= 0 {
		rawTitle = content[:end]
	}

	list := tagSpan(content, tagList)
	title := cleanTitle(rawTitle)
	if title == "" && list == "" {
		return common.ResponseBlock{}, false
	}

	var items []string
	if list != "" {
		items = parseItems(list)
	} else {
		items = scanMarkedLines(removeTagPairs(content), bulletLineRe)
	}

	var steps []string
	if action := tagSpan(content, tagAction); action != "" {
		steps = parseItems(action)
	} else {
		steps = scanMarkedLines(removeTagPairs(content), numberedLineRe)
	}

	kind, ok := classifyIntent(blockIntent)
	if !ok {
		kind = classifyByKeywords(content)
	}

	return common.ResponseBlock{
		Kind:      kind,
		Title:     title,
		Items:     items,
		Steps:     steps,
		StatsText: cleanStats(tagSpan(content, tagStats)),
		Footnote:  strings.TrimSpace(tagSpan(content, tagFooter)),
	}, true
}

// dedupeBlocks 以（類型, 小寫標題）去重，保留先出現者
// 模型重試時常把同一張卡片吐兩次
func dedupeBlocks(blocks []common.ResponseBlock) []common.ResponseBlock {
	if len(blocks) < 2 {
		return blocks
	}
	seen := make(map[string]struct{}, len(blocks))
	out := blocks[:0]
	for _, b := range blocks {
		key := string(b.Kind) + "|" + strings.ToLower(b.Title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	return out
}

// cleanSegmentText 段落內容轉對話文字：清掉殘留標籤
func cleanSegmentText(content string) string {
	content = intentTagRe.ReplaceAllString(content, "")
	return strings.TrimSpace(removeTagPairs(content))
}
