package reply

import (
	"strings"
	"testing"

	"calofit-backend/internal/pkg/common"
)

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		parsed := Parse(in)
		if parsed.Intent != common.DefaultIntent {
			t.Errorf("Parse(%q).Intent = %q, want %q", in, parsed.Intent, common.DefaultIntent)
		}
		if parsed.ConversationalText != "" {
			t.Errorf("Parse(%q) conversational = %q, want empty", in, parsed.ConversationalText)
		}
		if parsed.Blocks == nil || len(parsed.Blocks) != 0 {
			t.Errorf("Parse(%q) must yield an empty non-nil block slice", in)
		}
	}
}

func TestParseFullProtocolReply(t *testing.T) {
	raw := "Hola! Te preparo algo rico.\n" +
		"[CALOFIT_INTENT: ITEM_RECIPE]\n" +
		"[CALOFIT_HEADER]Option 1: Pollo al horno[/CALOFIT_HEADER]\n" +
		"[CALOFIT_LIST]\n- 200g pechuga de pollo\n- sal y pimienta\n[/CALOFIT_LIST]\n" +
		"[CALOFIT_ACTION]\n1. Sazonar el pollo\n2. Hornear 25 minutos\n[/CALOFIT_ACTION]\n" +
		"[CALOFIT_STATS]Cal: 310 | Prot: 40g (aprox)[/CALOFIT_STATS]\n" +
		"[CALOFIT_FOOTER]Ideal para cena[/CALOFIT_FOOTER]"

	parsed := Parse(raw)

	if parsed.Intent != "ITEM_RECIPE" {
		t.Errorf("intent = %q", parsed.Intent)
	}
	if len(parsed.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(parsed.Blocks))
	}
	block := parsed.Blocks[0]
	if block.Kind != common.BlockFood {
		t.Errorf("kind = %s", block.Kind)
	}
	if block.Title != "Pollo al horno" {
		t.Errorf("title = %q, numbering prefix must be stripped", block.Title)
	}
	if len(block.Items) != 2 || block.Items[0] != "200g pechuga de pollo" {
		t.Errorf("items = %v, quantities must survive", block.Items)
	}
	if len(block.Steps) != 2 || block.Steps[1] != "Hornear 25 minutos" {
		t.Errorf("steps = %v", block.Steps)
	}
	if block.StatsText != "Cal: 310 | Prot: 40g" {
		t.Errorf("stats = %q, parenthetical must be stripped", block.StatsText)
	}
	if block.Footnote != "Ideal para cena" {
		t.Errorf("footnote = %q", block.Footnote)
	}
	if parsed.ConversationalText != "Hola! Te preparo algo rico." {
		t.Errorf("conversational = %q", parsed.ConversationalText)
	}
}

func TestParseBlockIntentOverridesReplyIntent(t *testing.T) {
	raw := "[CALOFIT_INTENT: CHAT]\nClaro, aqui tienes.\n" +
		"[CALOFIT_INTENT: ITEM_WORKOUT]\n" +
		"[CALOFIT_HEADER]Circuito HIIT[/CALOFIT_HEADER]\n" +
		"[CALOFIT_LIST]\n- 20 burpees\n- 30s plancha\n[/CALOFIT_LIST]"

	parsed := Parse(raw)

	if parsed.Intent != "CHAT" {
		t.Errorf("reply intent must come from the first tag, got %q", parsed.Intent)
	}
	if len(parsed.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(parsed.Blocks))
	}
	if parsed.Blocks[0].Kind != common.BlockExercise {
		t.Errorf("kind = %s, block-local intent must win", parsed.Blocks[0].Kind)
	}
	if parsed.ConversationalText != "Claro, aqui tienes." {
		t.Errorf("conversational = %q", parsed.ConversationalText)
	}
	if strings.Contains(parsed.ConversationalText, "CALOFIT") {
		t.Error("tags must never leak into conversational text")
	}
}

func TestParseKeywordFallbackClassification(t *testing.T) {
	raw := "[CALOFIT_HEADER]Rutina 1: Full body[/CALOFIT_HEADER]\n" +
		"[CALOFIT_LIST]\n- 3 series de 12 sentadillas\n- 3 series de 10 flexiones\n[/CALOFIT_LIST]"

	parsed := Parse(raw)

	if parsed.Intent != common.DefaultIntent {
		t.Errorf("intent = %q, want default", parsed.Intent)
	}
	if len(parsed.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(parsed.Blocks))
	}
	if parsed.Blocks[0].Kind != common.BlockExercise {
		t.Error("workout keywords must classify the block as exercise")
	}
	if parsed.Blocks[0].Title != "Full body" {
		t.Errorf("title = %q", parsed.Blocks[0].Title)
	}
}

func TestParseKeywordTieDefaultsToFood(t *testing.T) {
	raw := "[CALOFIT_HEADER]Plan del dia[/CALOFIT_HEADER]\n" +
		"[CALOFIT_LIST]\n- algo neutro\n[/CALOFIT_LIST]"

	parsed := Parse(raw)
	if len(parsed.Blocks) != 1 || parsed.Blocks[0].Kind != common.BlockFood {
		t.Error("zero or tied keyword counts must default to food")
	}
}

func TestParseMissingHeaderClose(t *testing.T) {
	raw := "[CALOFIT_HEADER]Ensalada fresca\n[CALOFIT_LIST]\n- lechuga\n- tomate\n[/CALOFIT_LIST]"

	parsed := Parse(raw)
	if len(parsed.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(parsed.Blocks))
	}
	if parsed.Blocks[0].Title != "" {
		t.Errorf("unclosed header must yield an empty title, got %q", parsed.Blocks[0].Title)
	}
	if len(parsed.Blocks[0].Items) != 2 {
		t.Errorf("items = %v", parsed.Blocks[0].Items)
	}
}

func TestParseDiscardsEmptyChunks(t *testing.T) {
	raw := "[CALOFIT_HEADER]\nsolo ruido sin cierre ni lista"

	parsed := Parse(raw)
	if len(parsed.Blocks) != 0 {
		t.Errorf("chunk without title and without list must be discarded, got %d blocks", len(parsed.Blocks))
	}
}

func TestParseDeduplicatesBlocks(t *testing.T) {
	card := "[CALOFIT_HEADER]Avena con fruta[/CALOFIT_HEADER]\n" +
		"[CALOFIT_LIST]\n- 50g avena\n[/CALOFIT_LIST]\n"
	parsed := Parse(card + card)

	if len(parsed.Blocks) != 1 {
		t.Errorf("duplicate cards must collapse to one, got %d", len(parsed.Blocks))
	}
}

func TestParseBulletFallbackWithoutListTags(t *testing.T) {
	raw := "[CALOFIT_HEADER]Tostadas con huevo[/CALOFIT_HEADER]\n" +
		"- 2 huevos\n- pan integral\n" +
		"1. Tostar el pan\n2. Freir los huevos"

	parsed := Parse(raw)
	if len(parsed.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(parsed.Blocks))
	}
	block := parsed.Blocks[0]
	if len(block.Items) != 2 || block.Items[1] != "pan integral" {
		t.Errorf("items = %v, bullet lines must be picked up", block.Items)
	}
	if len(block.Steps) != 2 || block.Steps[0] != "Tostar el pan" {
		t.Errorf("steps = %v, numbered lines must be picked up", block.Steps)
	}
}

func TestParseRemovesTitleFromConversational(t *testing.T) {
	raw := "Te recomiendo Avena con fruta para el desayuno.\n" +
		"[CALOFIT_HEADER]Avena con fruta[/CALOFIT_HEADER]\n" +
		"[CALOFIT_LIST]\n- 50g avena\n[/CALOFIT_LIST]"

	parsed := Parse(raw)
	if strings.Contains(parsed.ConversationalText, "Avena con fruta") {
		t.Errorf("block title must be removed from conversational text: %q", parsed.ConversationalText)
	}
}
