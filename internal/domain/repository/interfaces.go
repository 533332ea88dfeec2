package repository

import (
	"context"
	"errors"

	"Moonlander/internal/domain/models"
)

// ErrUnavailable marks data that could not be obtained for this cycle:
// a missing listing, insufficient history, or a transient failure that
// exhausted its retries. It is recovered locally by the generator and
// never surfaces through the query interface.
var ErrUnavailable = errors.New("market data unavailable")

// MarketData acquires exchange data for one pair at a time. Every call
// draws from the process-wide request budget before going to the wire.
type MarketData interface {
	FetchCandles(ctx context.Context, pair string, tf Timeframe, lookback int) (*models.CandleSeries, error)
	FetchTicker(ctx context.Context, pair string) (*models.Ticker, error)
	// FetchSentiment returns an empty Sentiment (not an error) for pairs
	// with no derivatives listing.
	FetchSentiment(ctx context.Context, pair string, hasFutures bool) (*models.Sentiment, error)
}

// Publisher emits published batches to downstream consumers.
type Publisher interface {
	PublishBatch(ctx context.Context, b *models.Batch) error
	Close() error
}

// SnapshotCache mirrors the latest published batch so a restarted process
// can serve it before its first cycle completes.
type SnapshotCache interface {
	SaveBatch(ctx context.Context, b *models.Batch) error
	LoadBatch(ctx context.Context) (*models.Batch, error)
}

// Metrics records operational measurements.
type Metrics interface {
	RecordFetch(kind string, ok bool)
	RecordCycle(seconds float64, processed, degraded int)
	RecordComposite(symbol string, score float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
