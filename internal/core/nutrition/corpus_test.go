package nutrition

import (
	"database/sql"
	"path/filepath"
	"testing"
)

const corpusSchema = `CREATE TABLE alimentos_corpus (
	id TEXT, nombre TEXT, marca TEXT,
	calorias REAL, proteinas REAL, carbohidratos REAL, azucar REAL, grasas REAL,
	grasas_saturadas REAL, grasas_trans REAL, grasas_mono REAL, grasas_poli REAL,
	fibra REAL, sodio REAL, calcio REAL, hierro REAL,
	vitamina_a REAL, vitamina_c REAL, pais TEXT
)`

type corpusRow struct {
	id, nombre, marca     string
	calorias, proteinas   float64
	sodio, calcio, hierro float64
	vitaminaA, vitaminaC  float64
	pais                  string
}

func newTestCorpus(t *testing.T, rows []corpusRow) *Corpus {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(corpusSchema); err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		_, err := db.Exec(
			`INSERT INTO alimentos_corpus VALUES (?, ?, ?, ?, ?, 0, 0, 0, 0, 0, 0, 0, 0, ?, ?, ?, ?, ?, ?)`,
			r.id, r.nombre, r.marca, r.calorias, r.proteinas,
			r.sodio, r.calcio, r.hierro, r.vitaminaA, r.vitaminaC, r.pais,
		)
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	corpus := OpenCorpus(path)
	if corpus == nil {
		t.Fatal("OpenCorpus failed on a valid database")
	}
	t.Cleanup(func() { corpus.Close() })
	return corpus
}

func TestCorpusPrefixBeatsSubstring(t *testing.T) {
	corpus := newTestCorpus(t, []corpusRow{
		{id: "c1", nombre: "manzana roja", calorias: 52, pais: "es"},
		{id: "c2", nombre: "manzana verde", calorias: 48, pais: "es"},
		{id: "c3", nombre: "batido de manzana", calorias: 60, pais: "es"},
	})

	// 前綴命中時不考慮子字串列，即使子字串列熱量更高
	record := corpus.Lookup("manzana")
	if record == nil {
		t.Fatal("expected hit")
	}
	if record.Name != "manzana roja" {
		t.Errorf("got %q, want highest-calorie prefix match", record.Name)
	}
}

func TestCorpusSubstringFallback(t *testing.T) {
	corpus := newTestCorpus(t, []corpusRow{
		{id: "c1", nombre: "manzana verde", calorias: 48, pais: "es"},
	})

	record := corpus.Lookup("verde")
	if record == nil || record.Name != "manzana verde" {
		t.Fatal("expected substring fallback hit")
	}
}

func TestCorpusUnitConversion(t *testing.T) {
	corpus := newTestCorpus(t, []corpusRow{
		{id: "c1", nombre: "quinoa cocida", calorias: 120, proteinas: 4.4,
			sodio: 0.5, calcio: 0.05, hierro: 0.003, vitaminaA: 0.02, vitaminaC: 0.01, pais: "pe"},
	})

	record := corpus.Lookup("quinoa cocida")
	if record == nil {
		t.Fatal("expected hit")
	}
	if record.Micros.SodiumMg != 500 {
		t.Errorf("sodium = %f, want 500", record.Micros.SodiumMg)
	}
	if record.Micros.CalciumMg != 50 {
		t.Errorf("calcium = %f, want 50", record.Micros.CalciumMg)
	}
	if record.Micros.IronMg != 3 {
		t.Errorf("iron = %f, want 3", record.Micros.IronMg)
	}
	if record.Micros.VitaminA != 200 {
		t.Errorf("vitamin A = %f, want 200", record.Micros.VitaminA)
	}
	if record.Micros.VitaminC != 10 {
		t.Errorf("vitamin C = %f, want 10", record.Micros.VitaminC)
	}
}

func TestCorpusCachesResults(t *testing.T) {
	corpus := newTestCorpus(t, []corpusRow{
		{id: "c1", nombre: "manzana roja", calorias: 52, pais: "es"},
	})

	if corpus.Lookup("manzana") == nil {
		t.Fatal("expected hit")
	}
	if corpus.Lookup("inexistente") != nil {
		t.Fatal("expected miss")
	}
	if got := corpus.CacheSize(); got != 2 {
		t.Fatalf("cache size = %d, want 2 (hit and explicit miss)", got)
	}

	// 關掉底層連線後快取仍可回答，證明沒有再碰磁碟
	corpus.db.Close()
	if corpus.Lookup("manzana") == nil {
		t.Error("cached hit must survive a closed database")
	}
	if corpus.Lookup("inexistente") != nil {
		t.Error("cached miss must survive a closed database")
	}
}

func TestOpenCorpusMissingFile(t *testing.T) {
	if corpus := OpenCorpus(filepath.Join(t.TempDir(), "nope.db")); corpus != nil {
		t.Error("missing corpus file must yield nil")
	}
	// nil 語料庫查詢不得 panic
	var corpus *Corpus
	if corpus.Lookup("algo") != nil {
		t.Error("nil corpus must miss")
	}
}
