package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"calofit-backend/internal/core/ai/provider"
	aiservice "calofit-backend/internal/core/ai/service"
	"calofit-backend/internal/core/nutrition"
	"calofit-backend/internal/infrastructure/config"
	"calofit-backend/internal/pkg/common"
)

// fakeProvider 固定回覆的假 AI 提供者
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.reply}, nil
}

func (f *fakeProvider) GetModel() string          { return "fake-model" }
func (f *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (f *fakeProvider) Close() error              { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Queue: config.QueueConfig{Workers: 3, MaxSize: 10},
	}
}

func testResolver(t *testing.T) *nutrition.Resolver {
	t.Helper()
	dir := t.TempDir()
	official := filepath.Join(dir, "base.json")
	data := `[{"nombre": "tomate", "calorias": 18, "proteinas": 0.9, "carbohidratos": 3.9, "grasas": 0.2}]`
	if err := os.WriteFile(official, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	index := nutrition.NewIndex(&config.NutritionConfig{
		OfficialDataset:   official,
		CommercialDataset: filepath.Join(dir, "missing.json"),
	})
	return nutrition.NewResolver(index, nil)
}

func newTestService(t *testing.T, fake *fakeProvider) *Service {
	t.Helper()
	cfg := testConfig()
	ai := aiservice.NewService(cfg, fake, nil, nil)
	return NewService(cfg, ai, testResolver(t))
}

func TestChatEmptyMessage(t *testing.T) {
	svc := newTestService(t, &fakeProvider{reply: "hola"})
	if _, err := svc.Chat(context.Background(), "   "); err != common.ErrEmptyMessage {
		t.Errorf("got %v, want ErrEmptyMessage", err)
	}
}

func TestChatOverwritesFoodStats(t *testing.T) {
	fake := &fakeProvider{
		reply: "[CALOFIT_INTENT: ITEM_RECIPE]\n" +
			"[CALOFIT_HEADER]Tomate[/CALOFIT_HEADER]\n" +
			"[CALOFIT_LIST]\n- 1 tomate\n[/CALOFIT_LIST]\n" +
			"[CALOFIT_STATS]Cal: 999kcal | Prot: 99g[/CALOFIT_STATS]",
	}
	svc := newTestService(t, fake)

	result, err := svc.Chat(context.Background(), "algo con tomate")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Reply.Blocks) != 1 {
		t.Fatalf("got %d blocks", len(result.Reply.Blocks))
	}

	// 模型亂報的數字必須被解析引擎查到的紀錄覆寫
	want := "Cal: 18kcal | Prot: 0.9g | Carb: 3.9g | Gras: 0.2g"
	if got := result.Reply.Blocks[0].StatsText; got != want {
		t.Errorf("stats = %q, want %q", got, want)
	}
}

func TestChatKeepsStatsWhenTitleUnresolved(t *testing.T) {
	fake := &fakeProvider{
		reply: "[CALOFIT_HEADER]Plato misterioso[/CALOFIT_HEADER]\n" +
			"[CALOFIT_LIST]\n- algo\n[/CALOFIT_LIST]\n" +
			"[CALOFIT_STATS]Cal: 300kcal[/CALOFIT_STATS]",
	}
	svc := newTestService(t, fake)

	result, err := svc.Chat(context.Background(), "sorprendeme")
	if err != nil {
		t.Fatal(err)
	}
	if got := result.Reply.Blocks[0].StatsText; got != "Cal: 300kcal" {
		t.Errorf("unresolvable title must keep model stats, got %q", got)
	}
}

func TestChatPropagatesProviderError(t *testing.T) {
	svc := newTestService(t, &fakeProvider{err: errors.New("boom")})
	if _, err := svc.Chat(context.Background(), "hola"); err == nil {
		t.Error("provider failure must surface as an error")
	}
}

func TestValidateNamesOrderAndResults(t *testing.T) {
	svc := newTestService(t, &fakeProvider{reply: "hola"})

	names := []string{"tomate", "no existe", "Jitomate"}
	results, err := svc.ValidateNames(context.Background(), names)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, name := range names {
		if results[i].Name != name {
			t.Errorf("result %d = %q, input order must be preserved", i, results[i].Name)
		}
	}
	if !results[0].Found || results[0].Record == nil {
		t.Error("tomate must resolve")
	}
	if results[1].Found {
		t.Error("unknown name must not resolve")
	}
	if !results[2].Found {
		t.Error("jitomate must resolve through the synonym table")
	}
}

func TestValidateNamesLimit(t *testing.T) {
	svc := newTestService(t, &fakeProvider{reply: "hola"})

	names := make([]string, svc.config.Queue.MaxSize+1)
	for i := range names {
		names[i] = "tomate"
	}
	if _, err := svc.ValidateNames(context.Background(), names); err != common.ErrTooManyNames {
		t.Errorf("got %v, want ErrTooManyNames", err)
	}
}

func TestValidateNamesEmpty(t *testing.T) {
	svc := newTestService(t, &fakeProvider{reply: "hola"})
	results, err := svc.ValidateNames(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if results == nil || len(results) != 0 {
		t.Error("empty input must yield an empty non-nil slice")
	}
}
