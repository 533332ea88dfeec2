package repository

import (
	"context"
	"testing"
	"time"

	"Moonlander/internal/domain/models"
	"Moonlander/pkg/cache"
)

func TestCacheSnapshotRoundTrip(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	snap := NewCacheSnapshot(mc, time.Hour)
	ctx := context.Background()

	batch := &models.Batch{
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		TotalAssets: 2,
		Assets: []models.SignalRecord{
			{Symbol: "BTC", Score: 2, Label: "LONG", CompositeScore: 0.41},
			{Symbol: "ETH", Score: -1, Label: "LEAN SHORT", CompositeScore: -0.2},
		},
	}
	batch.Summary = models.Summarize(batch.Assets, 0)

	if err := snap.SaveBatch(ctx, batch); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}

	got, err := snap.LoadBatch(ctx)
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if got == nil {
		t.Fatal("LoadBatch returned nil for saved batch")
	}
	if !got.GeneratedAt.Equal(batch.GeneratedAt) {
		t.Errorf("generated_at = %v, want %v", got.GeneratedAt, batch.GeneratedAt)
	}
	if len(got.Assets) != 2 || got.Assets[0].Symbol != "BTC" {
		t.Errorf("assets = %+v", got.Assets)
	}
	if got.Summary.Bullish != 1 || got.Summary.Bearish != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
}

func TestCacheSnapshotMissIsNil(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()

	snap := NewCacheSnapshot(mc, time.Hour)
	got, err := snap.LoadBatch(context.Background())
	if err != nil {
		t.Fatalf("LoadBatch on empty cache: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}
