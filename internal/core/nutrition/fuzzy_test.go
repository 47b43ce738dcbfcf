package nutrition

import "testing"

func TestFuzzyScoreEarlierPositionWins(t *testing.T) {
	early, ok := fuzzyScore("arroz con pollo", "arroz")
	if !ok {
		t.Fatal("expected match for arroz")
	}
	late, ok := fuzzyScore("arroz con pollo", "pollo")
	if !ok {
		t.Fatal("expected match for pollo")
	}
	if early <= late {
		t.Errorf("key at position 0 should outscore key at position 10: %f <= %f", early, late)
	}
}

func TestFuzzyScoreLongerKeyWinsAtSamePosition(t *testing.T) {
	short, _ := fuzzyScore("jugo de naranja natural", "jugo")
	long, _ := fuzzyScore("jugo de naranja natural", "jugo de naranja")
	if long <= short {
		t.Errorf("longer key at same position should win: %f <= %f", long, short)
	}
}

func TestFuzzyScoreBidirectional(t *testing.T) {
	// 查詢是鍵的子字串也算比對成立
	score, ok := fuzzyScore("avena", "avena en hojuelas")
	if !ok {
		t.Fatal("query contained in key should match")
	}
	want := 1000.0 + float64(len("avena en hojuelas"))
	if score != want {
		t.Errorf("score = %f, want %f", score, want)
	}
}

func TestFuzzyScoreShortKeySkipped(t *testing.T) {
	if _, ok := fuzzyScore("te verde", "te"); ok {
		t.Error("keys shorter than minKeyLength must not match")
	}
}

func TestFuzzyScoreNoMatch(t *testing.T) {
	if _, ok := fuzzyScore("pescado", "pollo"); ok {
		t.Error("unrelated strings must not match")
	}
}
