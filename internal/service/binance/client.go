package binance

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"Moonlander/internal/domain/models"
	"Moonlander/internal/domain/repository"
	"Moonlander/internal/service/ratelimit"
	apphttp "Moonlander/pkg/http"
	applogger "Moonlander/pkg/logger"

	"github.com/sony/gobreaker"
)

// Config holds Binance client settings.
type Config struct {
	SpotURL        string
	FuturesURL     string
	RequestTimeout time.Duration
	MaxAttempts    int
	BackoffBase    time.Duration
	BackoffMax     time.Duration
}

// Client fetches spot and futures market data from the Binance public
// REST API. Every request waits on the shared per-host budget first and
// passes through a circuit breaker, so a broken upstream sheds load fast
// instead of burning the budget on doomed calls.
type Client struct {
	cfg     Config
	http    *apphttp.Client
	budget  *ratelimit.Budget
	breaker *gobreaker.CircuitBreaker
	log     *applogger.Logger
}

func NewClient(cfg Config, budget *ratelimit.Budget, log *applogger.Logger) *Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 10 * time.Second
	}

	st := gobreaker.Settings{Name: "binance"}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		if counts.ConsecutiveFailures >= 5 {
			return true
		}
		if counts.Requests < 20 {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) > 0.5
	}

	return &Client{
		cfg:     cfg,
		http:    apphttp.NewClient(apphttp.WithTimeout(cfg.RequestTimeout)),
		budget:  budget,
		breaker: gobreaker.NewCircuitBreaker(st),
		log:     log,
	}
}

var _ repository.MarketData = (*Client)(nil)

// FetchCandles loads the most recent lookback bars for pair at tf.
func (c *Client) FetchCandles(ctx context.Context, pair string, tf repository.Timeframe, lookback int) (*models.CandleSeries, error) {
	var raw [][]interface{}
	err := c.getWithRetry(ctx, c.cfg.SpotURL, "/api/v3/klines", map[string][]string{
		"symbol":   {pair},
		"interval": {string(tf)},
		"limit":    {strconv.Itoa(lookback)},
	}, &raw)
	if err != nil {
		return nil, c.unavailable("klines", pair, err)
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, row := range raw {
		candle, err := parseKline(row)
		if err != nil {
			return nil, c.unavailable("klines", pair, err)
		}
		candles = append(candles, candle)
	}

	return &models.CandleSeries{
		Pair:      pair,
		Timeframe: string(tf),
		Candles:   candles,
	}, nil
}

// FetchTicker loads the 24h spot ticker for pair.
func (c *Client) FetchTicker(ctx context.Context, pair string) (*models.Ticker, error) {
	var raw struct {
		LastPrice          string `json:"lastPrice"`
		PriceChangePercent string `json:"priceChangePercent"`
		HighPrice          string `json:"highPrice"`
		LowPrice           string `json:"lowPrice"`
		QuoteVolume        string `json:"quoteVolume"`
	}
	err := c.getWithRetry(ctx, c.cfg.SpotURL, "/api/v3/ticker/24hr", map[string][]string{
		"symbol": {pair},
	}, &raw)
	if err != nil {
		return nil, c.unavailable("ticker", pair, err)
	}

	t := &models.Ticker{Pair: pair}
	for _, f := range []struct {
		dst *float64
		src string
	}{
		{&t.Price, raw.LastPrice},
		{&t.ChangePct24h, raw.PriceChangePercent},
		{&t.High24h, raw.HighPrice},
		{&t.Low24h, raw.LowPrice},
		{&t.QuoteVolume24h, raw.QuoteVolume},
	} {
		v, err := strconv.ParseFloat(f.src, 64)
		if err != nil {
			return nil, c.unavailable("ticker", pair, fmt.Errorf("parse %q: %w", f.src, err))
		}
		*f.dst = v
	}
	return t, nil
}

// FetchSentiment loads funding rate, long/short account ratio and open
// interest from the futures API. Pairs without a derivatives listing get
// an empty reading with no error; individual endpoint failures leave that
// field nil rather than failing the whole asset.
func (c *Client) FetchSentiment(ctx context.Context, pair string, hasFutures bool) (*models.Sentiment, error) {
	s := &models.Sentiment{}
	if !hasFutures {
		return s, nil
	}

	var premium struct {
		LastFundingRate string `json:"lastFundingRate"`
	}
	err := c.getWithRetry(ctx, c.cfg.FuturesURL, "/fapi/v1/premiumIndex", map[string][]string{
		"symbol": {pair},
	}, &premium)
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		c.log.Warn("funding rate unavailable",
			applogger.String("pair", pair), applogger.Error(err))
	default:
		if v, perr := strconv.ParseFloat(premium.LastFundingRate, 64); perr == nil {
			s.FundingRate = &v
		}
	}

	var ratio []struct {
		LongShortRatio string `json:"longShortRatio"`
	}
	err = c.getWithRetry(ctx, c.cfg.FuturesURL, "/futures/data/globalLongShortAccountRatio", map[string][]string{
		"symbol": {pair},
		"period": {"1h"},
		"limit":  {"1"},
	}, &ratio)
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		c.log.Warn("long/short ratio unavailable",
			applogger.String("pair", pair), applogger.Error(err))
	default:
		if len(ratio) > 0 {
			if v, perr := strconv.ParseFloat(ratio[0].LongShortRatio, 64); perr == nil {
				s.LongShortRatio = &v
			}
		}
	}

	var oi struct {
		OpenInterest string `json:"openInterest"`
	}
	err = c.getWithRetry(ctx, c.cfg.FuturesURL, "/fapi/v1/openInterest", map[string][]string{
		"symbol": {pair},
	}, &oi)
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		c.log.Warn("open interest unavailable",
			applogger.String("pair", pair), applogger.Error(err))
	default:
		if v, perr := strconv.ParseFloat(oi.OpenInterest, 64); perr == nil {
			s.OpenInterest = &v
		}
	}

	return s, nil
}

// getWithRetry retries transient failures with capped exponential backoff.
// Non-retryable responses (bad symbol, malformed request) fail immediately.
func (c *Client) getWithRetry(ctx context.Context, base, path string, query map[string][]string, dest interface{}) error {
	endpoint, err := url.JoinPath(base, path)
	if err != nil {
		return fmt.Errorf("join url: %w", err)
	}
	host := hostLabel(base)

	backoff := c.cfg.BackoffBase
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		lastErr = c.get(ctx, host, endpoint, query, dest)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) || attempt == c.cfg.MaxAttempts {
			break
		}

		c.log.Debug("retrying fetch",
			applogger.String("path", path),
			applogger.Int("attempt", attempt),
			applogger.Duration("backoff", backoff),
			applogger.Error(lastErr),
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
		if backoff > c.cfg.BackoffMax {
			backoff = c.cfg.BackoffMax
		}
	}
	return lastErr
}

func (c *Client) get(ctx context.Context, host, endpoint string, query map[string][]string, dest interface{}) error {
	if err := c.budget.Wait(ctx, host); err != nil {
		return err
	}

	// The breaker must only count transient faults. A 400 for a delisted
	// symbol is a fact about the symbol, not upstream health.
	var permErr error
	_, err := c.breaker.Execute(func() (interface{}, error) {
		err := c.http.GetJSON(ctx, &apphttp.RequestOptions{
			URL:         endpoint,
			QueryParams: query,
		}, dest)

		var se *apphttp.StatusError
		if errors.As(err, &se) && !se.Retryable() {
			permErr = se
			return nil, nil
		}
		return nil, err
	})
	if permErr != nil {
		return permErr
	}
	return err
}

func (c *Client) unavailable(kind, pair string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", repository.ErrUnavailable, kind, pair, err)
}

func retryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *apphttp.StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	// Network-level failures are worth another attempt.
	return true
}

func hostLabel(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return u.Host
}

// parseKline decodes one row of the klines response. Binance encodes the
// open time as a number and OHLCV values as strings.
func parseKline(row []interface{}) (models.Candle, error) {
	var c models.Candle
	if len(row) < 6 {
		return c, fmt.Errorf("kline row too short: %d fields", len(row))
	}

	ts, ok := row[0].(float64)
	if !ok {
		return c, fmt.Errorf("kline open time: unexpected type %T", row[0])
	}
	c.OpenTime = int64(ts)

	for i, dst := range []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume} {
		s, ok := row[i+1].(string)
		if !ok {
			return c, fmt.Errorf("kline field %d: unexpected type %T", i+1, row[i+1])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return c, fmt.Errorf("kline field %d: %w", i+1, err)
		}
		*dst = v
	}
	return c, nil
}
