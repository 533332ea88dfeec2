package di

import (
	"fmt"

	"Moonlander/internal/domain/repository"
	"Moonlander/internal/handler/api"
	"Moonlander/internal/indicators"
	internalrepo "Moonlander/internal/repository"
	"Moonlander/internal/scheduler"
	"Moonlander/internal/scoring"
	"Moonlander/internal/service/binance"
	"Moonlander/internal/service/ratelimit"
	"Moonlander/internal/usecase"
	"Moonlander/pkg/cache"
	"Moonlander/pkg/config"
	xhttp "Moonlander/pkg/http"
	pkgkafka "Moonlander/pkg/kafka"
	applogger "Moonlander/pkg/logger"
	"Moonlander/pkg/metrics"
	"Moonlander/pkg/queue"
	"Moonlander/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBudget creates the shared outbound request budget.
func ProvideBudget(cfg *config.Config) *ratelimit.Budget {
	return ratelimit.NewBudget(cfg.Binance.RequestsPerSec, cfg.Binance.Burst)
}

// ProvideMarketData creates the Binance market data client.
func ProvideMarketData(cfg *config.Config, budget *ratelimit.Budget, log *applogger.Logger) repository.MarketData {
	return binance.NewClient(binance.Config{
		SpotURL:        cfg.Binance.SpotURL,
		FuturesURL:     cfg.Binance.FuturesURL,
		RequestTimeout: cfg.Binance.RequestTimeout,
		MaxAttempts:    cfg.Binance.MaxAttempts,
		BackoffBase:    cfg.Binance.BackoffBase,
		BackoffMax:     cfg.Binance.BackoffMax,
	}, budget, log)
}

// ProvideCache creates the cache backend: Redis when enabled, otherwise
// in-process memory.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideSnapshotCache mirrors published batches into the cache backend.
func ProvideSnapshotCache(c cache.Service) repository.SnapshotCache {
	return internalrepo.NewCacheSnapshot(c, 0)
}

// ProvidePublisher creates the batch publisher: Kafka when enabled,
// otherwise a no-op.
func ProvidePublisher(cfg *config.Config, log *applogger.Logger) (repository.Publisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic, log), nil
}

// ProvideScoringEngine creates the scoring engine from configured
// weights and thresholds.
func ProvideScoringEngine(cfg *config.Config) *scoring.Engine {
	return scoring.NewEngine(
		scoring.Weights{
			RSI:         cfg.Weights.RSI,
			EMA:         cfg.Weights.EMA,
			MACD:        cfg.Weights.MACD,
			Bollinger:   cfg.Weights.Bollinger,
			Volume:      cfg.Weights.Volume,
			Sentiment:   cfg.Weights.Sentiment,
			Liquidation: cfg.Weights.Liquidation,
		},
		scoring.Thresholds{
			Lean:   cfg.Thresholds.Lean,
			Clear:  cfg.Thresholds.Clear,
			Strong: cfg.Thresholds.Strong,
		},
	)
}

// ProvidePool creates the cycle worker pool.
func ProvidePool(cfg *config.Config) *queue.Pool {
	return queue.NewPool(queue.Config{Workers: cfg.Generator.Workers})
}

// ProvidePublishedStore creates the published batch store.
func ProvidePublishedStore() *usecase.PublishedStore {
	return usecase.NewPublishedStore()
}

// ProvideGenerator creates the signal generator.
func ProvideGenerator(
	cfg *config.Config,
	market repository.MarketData,
	engine *scoring.Engine,
	pool *queue.Pool,
	publisher repository.Publisher,
	snapshot repository.SnapshotCache,
	m repository.Metrics,
	store *usecase.PublishedStore,
	log *applogger.Logger,
) *usecase.Generator {
	tradable := make([]config.Asset, 0, len(cfg.Assets))
	for _, a := range cfg.Assets {
		if a.Pair != "" {
			tradable = append(tradable, a)
		}
	}
	return usecase.NewGenerator(
		usecase.GeneratorConfig{
			Assets:       tradable,
			Lookback:     cfg.Generator.Lookback,
			CycleTimeout: cfg.Generator.Interval,
			Params: indicators.Params{
				RSIPeriod:       cfg.Indicators.RSIPeriod,
				EMAFast:         cfg.Indicators.EMAFast,
				EMASlow:         cfg.Indicators.EMASlow,
				EMATrend:        cfg.Indicators.EMATrend,
				MACDFast:        cfg.Indicators.MACDFast,
				MACDSlow:        cfg.Indicators.MACDSlow,
				MACDSignal:      cfg.Indicators.MACDSignal,
				BollingerPeriod: cfg.Indicators.BollingerPeriod,
				BollingerStdDev: cfg.Indicators.BollingerStdDev,
				VolumePeriod:    cfg.Indicators.VolumePeriod,
			},
		},
		market, engine, pool, publisher, snapshot, m, store, log,
	)
}

// ProvideQuery creates the read-side query service.
func ProvideQuery(store *usecase.PublishedStore, cfg *config.Config) *usecase.Query {
	return usecase.NewQuery(store, cfg.Assets)
}

// ProvideHub creates the websocket push hub.
func ProvideHub(log *applogger.Logger) *api.Hub {
	return api.NewHub(log)
}

// ProvideHandler creates the HTTP handler and subscribes the hub to
// batch publications.
func ProvideHandler(log *applogger.Logger, query *usecase.Query, gen *usecase.Generator, hub *api.Hub) xhttp.Handler {
	gen.OnPublish(hub.Broadcast)
	return api.NewSignalsEchoHandler(log, query, gen, hub)
}

// ProvideScheduler creates the periodic cycle scheduler.
func ProvideScheduler(gen *usecase.Generator, cfg *config.Config, log *applogger.Logger) *scheduler.Scheduler {
	return scheduler.New(gen, cfg.Generator.Interval, log)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	gen *usecase.Generator,
	sched *scheduler.Scheduler,
	publisher repository.Publisher,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, gen, sched, publisher, handler)
}
