package nutrition

import (
	"testing"

	"calofit-backend/internal/infrastructure/config"
)

func emptyIndex() *Index {
	return NewIndex(&config.NutritionConfig{
		OfficialDataset:   "no/such/file.json",
		CommercialDataset: "no/such/other.json",
	})
}

func TestResolveEmptyName(t *testing.T) {
	r := NewResolver(emptyIndex(), nil)
	if r.Resolve("") != nil || r.Resolve("   ") != nil {
		t.Error("blank input must resolve to nil")
	}
	if r.NotFoundCount() != 0 {
		t.Error("blank input must not pollute the not-found cache")
	}
}

func TestResolveAppliesSynonyms(t *testing.T) {
	idx := newTestIndex(t)
	r := NewResolver(idx, nil)

	// palta → aguacate 改寫後精確命中
	record := r.Resolve("Palta")
	if record == nil || record.Name != "aguacate" {
		t.Fatal("expected synonym rewrite then exact hit")
	}
}

func TestResolveFallsBackToCorpus(t *testing.T) {
	corpus := newTestCorpus(t, []corpusRow{
		{id: "c1", nombre: "quinoa cocida", calorias: 120, pais: "pe"},
	})
	r := NewResolver(emptyIndex(), corpus)

	record := r.Resolve("quinoa cocida")
	if record == nil || record.Name != "quinoa cocida" {
		t.Fatal("expected corpus fallback hit")
	}
	if r.NotFoundCount() != 0 {
		t.Error("a hit must not enter the not-found cache")
	}
}

func TestResolveFastSkipsCorpus(t *testing.T) {
	corpus := newTestCorpus(t, []corpusRow{
		{id: "c1", nombre: "quinoa cocida", calorias: 120, pais: "pe"},
	})
	r := NewResolver(emptyIndex(), corpus)

	if r.ResolveFast("quinoa cocida") != nil {
		t.Fatal("fast path must not touch the corpus")
	}
	if r.NotFoundCount() != 1 {
		t.Fatal("fast miss must be recorded")
	}

	// 未命中快取在快速與完整路徑間共用：
	// 快速路徑記過的名稱，完整路徑也直接短路
	if r.Resolve("quinoa cocida") != nil {
		t.Error("full path must honor the shared not-found cache")
	}
	if corpus.CacheSize() != 0 {
		t.Error("corpus must never have been queried")
	}
}

func TestResolveShortKeysNeverHitCorpus(t *testing.T) {
	corpus := newTestCorpus(t, []corpusRow{
		{id: "c1", nombre: "aji amarillo", calorias: 30, pais: "pe"},
	})
	r := NewResolver(emptyIndex(), corpus)

	if r.Resolve("aji") != nil {
		t.Error("keys at or below the length gate must skip the corpus")
	}
	if corpus.CacheSize() != 0 {
		t.Error("corpus must not have been queried for a short key")
	}
}

func TestResolveNegativeCacheIdempotent(t *testing.T) {
	r := NewResolver(emptyIndex(), nil)

	for i := 0; i < 3; i++ {
		if r.Resolve("plato inexistente") != nil {
			t.Fatal("expected miss")
		}
	}
	if r.NotFoundCount() != 1 {
		t.Errorf("not-found cache = %d entries, want 1", r.NotFoundCount())
	}
}
