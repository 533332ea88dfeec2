package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"Moonlander/internal/domain/models"
	"Moonlander/internal/domain/repository"
	"Moonlander/internal/indicators"
	"Moonlander/internal/scoring"
	"Moonlander/pkg/config"
	applogger "Moonlander/pkg/logger"
	"Moonlander/pkg/queue"
)

// GeneratorConfig carries the generation settings.
type GeneratorConfig struct {
	Assets       []config.Asset
	Lookback     int
	CycleTimeout time.Duration
	Params       indicators.Params
}

// Generator runs full signal cycles: fetch market data for every catalog
// asset, score it, and publish the batch atomically. One cycle runs at a
// time; triggers arriving while a cycle is in flight join it instead of
// queueing another.
type Generator struct {
	cfg       GeneratorConfig
	market    repository.MarketData
	engine    *scoring.Engine
	pool      *queue.Pool
	publisher repository.Publisher
	snapshot  repository.SnapshotCache
	metrics   repository.Metrics
	store     *PublishedStore
	log       *applogger.Logger

	mu        sync.Mutex
	inflight  bool
	listeners []func(*models.Batch)
}

func NewGenerator(
	cfg GeneratorConfig,
	market repository.MarketData,
	engine *scoring.Engine,
	pool *queue.Pool,
	publisher repository.Publisher,
	snapshot repository.SnapshotCache,
	metrics repository.Metrics,
	store *PublishedStore,
	log *applogger.Logger,
) *Generator {
	if cfg.CycleTimeout <= 0 {
		cfg.CycleTimeout = 10 * time.Minute
	}
	return &Generator{
		cfg:       cfg,
		market:    market,
		engine:    engine,
		pool:      pool,
		publisher: publisher,
		snapshot:  snapshot,
		metrics:   metrics,
		store:     store,
		log:       log,
	}
}

// OnPublish registers a callback invoked after each batch publication.
// Register before the first cycle; not safe to call concurrently with
// running cycles.
func (g *Generator) OnPublish(fn func(*models.Batch)) {
	g.listeners = append(g.listeners, fn)
}

// Refresh starts a cycle in the background. Returns false when a cycle
// is already in flight; the caller's request is then served by that
// cycle's result.
func (g *Generator) Refresh() bool {
	g.mu.Lock()
	if g.inflight {
		g.mu.Unlock()
		return false
	}
	g.inflight = true
	g.mu.Unlock()

	go func() {
		defer g.release()
		ctx, cancel := context.WithTimeout(context.Background(), g.cfg.CycleTimeout)
		defer cancel()
		g.runCycle(ctx)
	}()
	return true
}

// RunOnce runs a full cycle synchronously. Returns false without running
// when a cycle is already in flight.
func (g *Generator) RunOnce(ctx context.Context) bool {
	g.mu.Lock()
	if g.inflight {
		g.mu.Unlock()
		return false
	}
	g.inflight = true
	g.mu.Unlock()

	defer g.release()
	g.runCycle(ctx)
	return true
}

// WarmStart loads the last mirrored batch so queries can be served
// before the first cycle of this process completes.
func (g *Generator) WarmStart(ctx context.Context) {
	b, err := g.snapshot.LoadBatch(ctx)
	if err != nil {
		g.log.Warn("warm start failed", applogger.Error(err))
		return
	}
	if b == nil {
		return
	}
	g.store.Publish(b)
	g.log.Info("warm start from cached batch",
		applogger.Int("assets", len(b.Assets)),
		applogger.String("generated_at", b.GeneratedAt.Format(time.RFC3339)),
	)
}

func (g *Generator) release() {
	g.mu.Lock()
	g.inflight = false
	g.mu.Unlock()
}

type assetResult struct {
	record *models.SignalRecord
}

func (g *Generator) runCycle(ctx context.Context) {
	start := time.Now()
	generatedAt := start.UTC()

	g.log.Info("signal cycle started", applogger.Int("assets", len(g.cfg.Assets)))

	results := make([]assetResult, len(g.cfg.Assets))
	tasks := make([]queue.Task, len(g.cfg.Assets))
	for i, asset := range g.cfg.Assets {
		i, asset := i, asset
		tasks[i] = func(ctx context.Context) {
			record := g.processAsset(ctx, asset, generatedAt)
			results[i].record = record
		}
	}
	g.pool.Run(ctx, tasks)

	if ctx.Err() != nil {
		g.log.Warn("signal cycle aborted", applogger.Error(ctx.Err()))
		g.metrics.RecordError("cycle_aborted")
		return
	}

	records := make([]models.SignalRecord, 0, len(results))
	for _, r := range results {
		if r.record != nil {
			records = append(records, *r.record)
		}
	}
	degraded := len(g.cfg.Assets) - len(records)

	if len(records) == 0 {
		// Keep serving the previous batch rather than publishing nothing.
		g.log.Error("signal cycle produced no records, keeping previous batch",
			applogger.Int("degraded", degraded))
		g.metrics.RecordError("cycle_empty")
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CompositeScore > records[j].CompositeScore
	})

	batch := &models.Batch{
		GeneratedAt: generatedAt,
		TotalAssets: len(g.cfg.Assets),
		Summary:     models.Summarize(records, degraded),
		Assets:      records,
	}

	g.store.Publish(batch)

	if err := g.snapshot.SaveBatch(ctx, batch); err != nil {
		g.log.Warn("batch snapshot save failed", applogger.Error(err))
		g.metrics.RecordError("snapshot_save")
	}
	if err := g.publisher.PublishBatch(ctx, batch); err != nil {
		g.log.Error("batch publish failed", applogger.Error(err))
		g.metrics.RecordError("publish")
	}
	for _, fn := range g.listeners {
		fn(batch)
	}

	elapsed := time.Since(start)
	g.metrics.RecordCycle(elapsed.Seconds(), len(records), degraded)
	g.log.Info("signal cycle completed",
		applogger.Int("processed", len(records)),
		applogger.Int("degraded", degraded),
		applogger.Duration("elapsed", elapsed),
	)
}

// processAsset builds one asset's record, or nil when the asset is
// degraded this cycle.
func (g *Generator) processAsset(ctx context.Context, asset config.Asset, generatedAt time.Time) *models.SignalRecord {
	assetStart := time.Now()

	ticker, err := g.market.FetchTicker(ctx, asset.Pair)
	g.metrics.RecordFetch("ticker", err == nil)
	if err != nil {
		g.log.Warn("asset degraded: ticker",
			applogger.String("symbol", asset.Symbol), applogger.Error(err))
		g.metrics.RecordError("asset_degraded")
		return nil
	}

	byTF := make(map[repository.Timeframe]*models.IndicatorSet, 4)
	rsiByTF := make(map[string]*float64, 4)
	usable := 0
	for _, tf := range repository.Timeframes() {
		series, err := g.market.FetchCandles(ctx, asset.Pair, tf, g.cfg.Lookback)
		g.metrics.RecordFetch("candles", err == nil)
		if err != nil {
			g.log.Debug("timeframe unavailable",
				applogger.String("symbol", asset.Symbol),
				applogger.String("timeframe", string(tf)),
				applogger.Error(err),
			)
			rsiByTF[string(tf)] = nil
			continue
		}
		set := indicators.Compute(series, g.cfg.Params)
		if set == nil {
			rsiByTF[string(tf)] = nil
			continue
		}
		byTF[tf] = set
		usable++
		if set.RSI != nil {
			v := set.RSI.Value
			rsiByTF[string(tf)] = &v
		} else {
			rsiByTF[string(tf)] = nil
		}
	}
	if usable == 0 {
		g.log.Warn("asset degraded: no usable timeframes",
			applogger.String("symbol", asset.Symbol))
		g.metrics.RecordError("asset_degraded")
		return nil
	}

	sentiment, err := g.market.FetchSentiment(ctx, asset.Pair, asset.Futures)
	g.metrics.RecordFetch("sentiment", err == nil)
	if err != nil {
		// Sentiment is optional; score on what we have.
		sentiment = &models.Sentiment{}
	}

	res := g.engine.Score(scoring.Inputs{ByTimeframe: byTF, Sentiment: sentiment})
	g.metrics.RecordComposite(asset.Symbol, res.Composite)
	g.metrics.RecordLatency("asset", time.Since(assetStart).Seconds())

	return &models.SignalRecord{
		Symbol:         asset.Symbol,
		Name:           asset.Name,
		Category:       asset.Category,
		Price:          ticker.Price,
		Change24h:      ticker.ChangePct24h,
		RSI:            rsiByTF,
		RSIAligned:     res.RSIAligned,
		EMAAligned:     res.EMAAligned,
		MACDAligned:    res.MACDAligned,
		FundingRate:    sentiment.FundingRate,
		LongShortRatio: sentiment.LongShortRatio,
		OpenInterest:   sentiment.OpenInterest,
		CompositeScore: res.Composite,
		Confidence:     res.Confidence,
		Score:          res.Score,
		Label:          res.Label,
		GeneratedAt:    generatedAt,
	}
}
