package reply

import (
	"strings"

	"calofit-backend/internal/pkg/common"
)

// legacy 行導向解析：協議上線前的模型輸出只有 "Plato: ..." 式的標記行
// 仍有舊 prompt 與部分模型會退回這種格式，保留支援

// startMarkers 卡片起始標記（行首，冒號結尾）
var startMarkers = []struct {
	label    string
	exercise bool
}{
	{"rutina", true},
	{"ejercicio", true},
	{"entrenamiento", true},
	{"plato", false},
	{"receta", false},
	{"comida", false},
}

// fieldMarkers 卡片欄位標記
var fieldMarkers = []struct {
	label string
	field string
}{
	{"ingredientes", "items"},
	{"ejercicios", "items"},
	{"preparacion", "steps"},
	{"preparación", "steps"},
	{"pasos", "steps"},
	{"aporte", "stats"},
	{"macros", "stats"},
	{"nota", "footnote"},
	{"notas", "footnote"},
}

// parseLegacy 逐行掃描組裝卡片
// 起始標記開新卡片（順手關掉上一張），欄位標記切換收集目標，
// 第一張卡片之前的行全部是對話文字
func parseLegacy(text, intent string) *common.ParsedReply {
	var (
		blocks         []common.ResponseBlock
		conversational []string

		current *common.ResponseBlock
		field   string
	)

	flush := func() {
		if current == nil {
			return
		}
		if current.Title != "" || len(current.Items) > 0 {
			blocks = append(blocks, *current)
		}
		current = nil
		field = ""
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if kind, rest, ok := matchStartMarker(trimmed); ok {
			flush()
			current = &common.ResponseBlock{
				Kind:  kind,
				Title: cleanTitle(rest),
			}
			continue
		}

		if current == nil {
			conversational = append(conversational, trimmed)
			continue
		}

		if name, rest, ok := matchFieldMarker(trimmed); ok {
			field = name
			if rest == "" {
				continue
			}
			trimmed = rest
		}

		switch field {
		case "items":
			if item := strings.TrimSpace(bulletMarkerRe.ReplaceAllString(trimmed, "")); item != "" {
				current.Items = append(current.Items, item)
			}
		case "steps":
			if step := strings.TrimSpace(bulletMarkerRe.ReplaceAllString(trimmed, "")); step != "" {
				current.Steps = append(current.Steps, step)
			}
		case "stats":
			current.StatsText = joinLine(current.StatsText, cleanStats(trimmed))
		case "footnote":
			current.Footnote = joinLine(current.Footnote, trimmed)
		default:
			// 標題後、第一個欄位標記前的行視為對話
			conversational = append(conversational, trimmed)
		}
	}
	flush()

	blocks = dedupeBlocks(blocks)

	titles := make([]string, 0, len(blocks))
	for _, b := range blocks {
		titles = append(titles, b.Title)
	}
	if blocks == nil {
		blocks = []common.ResponseBlock{}
	}
	return &common.ParsedReply{
		Intent:             intent,
		ConversationalText: tidyConversational(strings.Join(conversational, "\n"), titles),
		Blocks:             blocks,
	}
}

// matchStartMarker 判斷是否為卡片起始行，回傳卡片類型與冒號後的標題文字
func matchStartMarker(line string) (common.BlockKind, string, bool) {
	lower := strings.ToLower(line)
	for _, m := range startMarkers {
		if rest, ok := markerRest(lower, line, m.label); ok {
			kind := common.BlockFood
			if m.exercise {
				kind = common.BlockExercise
			}
			return kind, rest, true
		}
	}
	return "", "", false
}

// matchFieldMarker 判斷是否為欄位標記行
func matchFieldMarker(line string) (string, string, bool) {
	lower := strings.ToLower(line)
	for _, m := range fieldMarkers {
		if rest, ok := markerRest(lower, line, m.label); ok {
			return m.field, rest, true
		}
	}
	return "", "", false
}

// markerRest 行首匹配 "label:"（容許星號粗體），回傳冒號後文字
func markerRest(lower, original, label string) (string, bool) {
	stripped := strings.TrimLeft(lower, "*# ")
	offset := len(lower) - len(stripped)
	if !strings.HasPrefix(stripped, label) {
		return "", false
	}
	after := stripped[len(label):]
	if !strings.HasPrefix(after, ":") {
		return "", false
	}
	rest := original[offset+len(label)+1:]
	return strings.TrimSpace(strings.Trim(rest, "* ")), true
}

// joinLine 多行欄位以空格串接
func joinLine(existing, add string) string {
	if existing == "" {
		return add
	}
	if add == "" {
		return existing
	}
	return existing + " " + add
}
