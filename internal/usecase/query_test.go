package usecase

import (
	"errors"
	"testing"
	"time"

	"Moonlander/internal/domain/models"
	"Moonlander/pkg/config"
)

func queryFixture() (*Query, *PublishedStore) {
	store := NewPublishedStore()
	q := NewQuery(store, []config.Asset{
		{Symbol: "BTC", Category: "major", Pair: "BTCUSDT"},
		{Symbol: "ETH", Category: "major", Pair: "ETHUSDT"},
		{Symbol: "SOL", Category: "layer1", Pair: "SOLUSDT"},
		{Symbol: "DOGE", Category: "meme", Pair: "DOGEUSDT"},
	})
	return q, store
}

func publishFixture(store *PublishedStore) *models.Batch {
	records := []models.SignalRecord{
		{Symbol: "BTC", Category: "major", Score: 3, CompositeScore: 0.72, Price: 65000, Change24h: 2.1},
		{Symbol: "ETH", Category: "major", Score: 1, CompositeScore: 0.2, Price: 3200, Change24h: -0.5},
		{Symbol: "SOL", Category: "layer1", Score: -2, CompositeScore: -0.45, Price: 150, Change24h: -4.2},
		// DOGE degraded this cycle: present in catalog, absent here.
	}
	b := &models.Batch{
		GeneratedAt: time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC),
		TotalAssets: 4,
		Summary:     models.Summarize(records, 1),
		Assets:      records,
	}
	store.Publish(b)
	return b
}

func TestSignalsBeforeFirstBatch(t *testing.T) {
	q, _ := queryFixture()
	if _, err := q.Signals(&models.SignalsRequest{}); !errors.Is(err, ErrNoBatch) {
		t.Fatalf("err = %v, want ErrNoBatch", err)
	}
}

func TestSignalsDefaultSort(t *testing.T) {
	q, store := queryFixture()
	publishFixture(store)

	resp, err := q.Signals(&models.SignalsRequest{SortBy: "score", SortDir: "desc"})
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	if resp.TotalResults != 3 {
		t.Fatalf("total = %d, want 3", resp.TotalResults)
	}
	want := []string{"BTC", "ETH", "SOL"}
	for i, w := range want {
		if resp.Assets[i].Symbol != w {
			t.Errorf("position %d = %s, want %s", i, resp.Assets[i].Symbol, w)
		}
	}
}

func TestSignalsFilters(t *testing.T) {
	q, store := queryFixture()
	publishFixture(store)

	minScore := 0
	resp, err := q.Signals(&models.SignalsRequest{
		Category: "major",
		MinScore: &minScore,
		SortBy:   "score",
		SortDir:  "desc",
	})
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	if resp.TotalResults != 2 {
		t.Fatalf("total = %d, want 2", resp.TotalResults)
	}
	for _, r := range resp.Assets {
		if r.Category != "major" || r.Score < 0 {
			t.Errorf("unexpected record %+v", r)
		}
	}
}

func TestSignalsMaxScoreAndLimit(t *testing.T) {
	q, store := queryFixture()
	publishFixture(store)

	maxScore := 1
	resp, err := q.Signals(&models.SignalsRequest{
		MaxScore: &maxScore,
		SortBy:   "score",
		SortDir:  "asc",
		Limit:    1,
	})
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	if resp.TotalResults != 1 {
		t.Fatalf("total = %d, want 1", resp.TotalResults)
	}
	if resp.Assets[0].Symbol != "SOL" {
		t.Errorf("got %s, want SOL (lowest score first)", resp.Assets[0].Symbol)
	}
}

func TestSignalsSortBySymbol(t *testing.T) {
	q, store := queryFixture()
	publishFixture(store)

	resp, err := q.Signals(&models.SignalsRequest{SortBy: "symbol", SortDir: "asc"})
	if err != nil {
		t.Fatalf("Signals: %v", err)
	}
	want := []string{"BTC", "ETH", "SOL"}
	for i, w := range want {
		if resp.Assets[i].Symbol != w {
			t.Errorf("position %d = %s, want %s", i, resp.Assets[i].Symbol, w)
		}
	}
}

func TestSymbolLookup(t *testing.T) {
	q, store := queryFixture()
	publishFixture(store)

	r, err := q.Symbol("btc")
	if err != nil {
		t.Fatalf("Symbol: %v", err)
	}
	if r.Symbol != "BTC" || r.Score != 3 {
		t.Errorf("record = %+v", r)
	}

	if _, err := q.Symbol("XRP"); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("unknown symbol err = %v, want ErrUnknownSymbol", err)
	}

	if _, err := q.Symbol("DOGE"); !errors.Is(err, ErrDegradedSymbol) {
		t.Errorf("degraded symbol err = %v, want ErrDegradedSymbol", err)
	}
}

func TestCategories(t *testing.T) {
	q, store := queryFixture()
	publishFixture(store)

	cats, err := q.Categories()
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	major := cats["major"]
	if major.Count != 2 || major.Bullish != 2 {
		t.Errorf("major = %+v", major)
	}
	layer1 := cats["layer1"]
	if layer1.Count != 1 || layer1.Bearish != 1 {
		t.Errorf("layer1 = %+v", layer1)
	}
}

func TestSummary(t *testing.T) {
	q, store := queryFixture()
	b := publishFixture(store)

	got, err := q.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got != b {
		t.Error("Summary should return the published batch")
	}
	if got.Summary.Bullish != 2 || got.Summary.Bearish != 1 || got.Summary.Degraded != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if got.Summary.StrongSignals != 2 {
		t.Errorf("strong = %d, want 2", got.Summary.StrongSignals)
	}
}
