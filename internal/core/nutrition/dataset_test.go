package nutrition

import (
	"os"
	"path/filepath"
	"testing"

	"calofit-backend/internal/pkg/common"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDatasetFieldAliases(t *testing.T) {
	// 同一份資料集可以混用西文與英文欄位名
	path := writeDataset(t, `[
	  {"nombre": "lenteja", "calorias": 116, "proteinas": 9, "carbohidratos": 20.1, "grasas": 0.4},
	  {"name": "tuna", "kcal": 116, "protein_g": 25.5, "carbs_g": 0, "fat_g": 0.8}
	]`)

	entries := loadDataset(path, common.TierOfficial)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].record.Macros.Calories != 116 || entries[1].record.Macros.Calories != 116 {
		t.Error("calorie aliases not resolved")
	}
	if entries[1].record.Macros.ProteinG != 25.5 {
		t.Errorf("protein = %f", entries[1].record.Macros.ProteinG)
	}
}

func TestLoadDatasetCommaDecimals(t *testing.T) {
	path := writeDataset(t, `[{"nombre": "palta", "calorias": "160,0", "grasas": "14,7"}]`)

	entries := loadDataset(path, common.TierOfficial)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].record.Macros.Calories != 160 {
		t.Errorf("calories = %f, want 160", entries[0].record.Macros.Calories)
	}
	if entries[0].record.Macros.FatG != 14.7 {
		t.Errorf("fat = %f, want 14.7", entries[0].record.Macros.FatG)
	}
}

func TestLoadDatasetMissingFieldsAreZero(t *testing.T) {
	path := writeDataset(t, `[{"nombre": "agua"}]`)

	entries := loadDataset(path, common.TierOfficial)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	m := entries[0].record.Macros
	if m.Calories != 0 || m.ProteinG != 0 || m.CarbsG != 0 || m.FatG != 0 {
		t.Errorf("missing fields must be zero, got %+v", m)
	}
}

func TestLoadDatasetSkipsNamelessRows(t *testing.T) {
	path := writeDataset(t, `[{"calorias": 100}, {"nombre": "pan", "calorias": 247}]`)

	entries := loadDataset(path, common.TierOfficial)
	if len(entries) != 1 {
		t.Fatalf("nameless rows must be skipped, got %d entries", len(entries))
	}
	if entries[0].record.Name != "pan" {
		t.Errorf("got %q", entries[0].record.Name)
	}
}

func TestLoadDatasetMissingFile(t *testing.T) {
	if entries := loadDataset("no/such/path.json", common.TierOfficial); entries != nil {
		t.Errorf("missing file must yield nil, got %d entries", len(entries))
	}
}

func TestLoadDatasetMalformedJSON(t *testing.T) {
	path := writeDataset(t, `{"not": "an array"`)
	if entries := loadDataset(path, common.TierOfficial); entries != nil {
		t.Errorf("malformed file must yield nil, got %d entries", len(entries))
	}
}
