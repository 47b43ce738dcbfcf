package reply

import (
	"strings"

	"calofit-backend/internal/pkg/common"
)

// 意圖值分類：區塊層級的意圖標籤直接決定卡片類型
var (
	workoutIntents = []string{"ITEM_WORKOUT", "WORKOUT", "RUTINA", "EJERCICIO", "TRAINING"}
	foodIntents    = []string{"ITEM_RECIPE", "ITEM_FOOD", "ITEM_MEAL", "RECIPE", "RECETA", "COMIDA", "MEAL", "PLATO"}
)

// 關鍵字計分表：無區塊意圖時統計出現次數，多者勝
// 平手或皆為零時預設 food，絕不報錯
var (
	workoutKeywords = []string{
		"rutina", "ejercicio", "ejercicios", "serie", "series",
		"repeticion", "repeticiones", "reps", "sentadilla", "sentadillas",
		"flexion", "flexiones", "plancha", "cardio", "descanso",
		"entrenamiento", "workout", "burpee", "abdominal", "abdominales",
	}
	foodKeywords = []string{
		"receta", "ingrediente", "ingredientes", "cocinar", "comida",
		"plato", "gramos", "proteina", "proteinas", "calorias",
		"desayuno", "almuerzo", "cena", "mezclar", "hornear",
		"sarten", "aceite", "sal", "porcion",
	}
)

// classifyIntent 依意圖值判斷卡片類型；未知值回傳 false
func classifyIntent(intent string) (common.BlockKind, bool) {
	intent = strings.ToUpper(strings.TrimSpace(intent))
	for _, v := range workoutIntents {
		if intent == v {
			return common.BlockExercise, true
		}
	}
	for _, v := range foodIntents {
		if intent == v {
			return common.BlockFood, true
		}
	}
	return "", false
}

// classifyByKeywords 關鍵字計分分類
// exercise 只在嚴格多於 food 時勝出，其餘一律 food
func classifyByKeywords(text string) common.BlockKind {
	lower := strings.ToLower(text)

	workoutCount := 0
	for _, kw := range workoutKeywords {
		workoutCount += strings.Count(lower, kw)
	}
	foodCount := 0
	for _, kw := range foodKeywords {
		foodCount += strings.Count(lower, kw)
	}

	if workoutCount > foodCount {
		return common.BlockExercise
	}
	return common.BlockFood
}
