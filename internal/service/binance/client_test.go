package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"Moonlander/internal/domain/repository"
	"Moonlander/internal/service/ratelimit"
	applogger "Moonlander/pkg/logger"
)

func testClient(t *testing.T, spotURL, futuresURL string) *Client {
	t.Helper()
	log, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewClient(Config{
		SpotURL:        spotURL,
		FuturesURL:     futuresURL,
		RequestTimeout: 2 * time.Second,
		MaxAttempts:    3,
		BackoffBase:    time.Millisecond,
		BackoffMax:     5 * time.Millisecond,
	}, ratelimit.NewBudget(1000, 1000), log)
}

const klinesBody = `[
	[1700000000000,"100.0","110.0","95.0","105.0","1234.5",1700000899999,"0",0,"0","0","0"],
	[1700000900000,"105.0","112.0","104.0","111.0","2345.6",1700001799999,"0",0,"0","0","0"]
]`

func TestFetchCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("symbol = %q", got)
		}
		if got := r.URL.Query().Get("interval"); got != "4h" {
			t.Errorf("interval = %q", got)
		}
		w.Write([]byte(klinesBody))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	series, err := c.FetchCandles(context.Background(), "BTCUSDT", repository.TF4h, 200)
	if err != nil {
		t.Fatalf("FetchCandles: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("len = %d, want 2", series.Len())
	}
	first := series.Candles[0]
	if first.OpenTime != 1700000000000 || first.Close != 105.0 || first.Volume != 1234.5 {
		t.Errorf("candle = %+v", first)
	}
}

func TestFetchCandlesBadSymbolIsUnavailable(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	_, err := c.FetchCandles(context.Background(), "NOPEUSDT", repository.TF1h, 200)
	if !errors.Is(err, repository.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if calls != 1 {
		t.Errorf("a 400 was retried %d times", calls)
	}
}

func TestFetchCandlesRetriesServerErrors(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) < 3 {
			http.Error(w, "upstream hiccup", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(klinesBody))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	series, err := c.FetchCandles(context.Background(), "BTCUSDT", repository.TF15m, 200)
	if err != nil {
		t.Fatalf("FetchCandles after retries: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("len = %d, want 2", series.Len())
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestFetchCandlesExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	_, err := c.FetchCandles(context.Background(), "BTCUSDT", repository.TF1d, 200)
	if !errors.Is(err, repository.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestFetchTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/24hr" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"lastPrice":"65000.12","priceChangePercent":"-2.35",
			"highPrice":"67000","lowPrice":"64000","quoteVolume":"123456789.5"
		}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	ticker, err := c.FetchTicker(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("FetchTicker: %v", err)
	}
	if ticker.Price != 65000.12 || ticker.ChangePct24h != -2.35 {
		t.Errorf("ticker = %+v", ticker)
	}
}

func TestFetchSentimentNoFutures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a pair without futures")
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	s, err := c.FetchSentiment(context.Background(), "SPOTONLYUSDT", false)
	if err != nil {
		t.Fatalf("FetchSentiment: %v", err)
	}
	if s.Available() {
		t.Error("sentiment should be empty without a futures listing")
	}
}

func TestFetchSentiment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fapi/v1/premiumIndex":
			w.Write([]byte(`{"lastFundingRate":"0.00012"}`))
		case "/futures/data/globalLongShortAccountRatio":
			w.Write([]byte(`[{"longShortRatio":"1.85"}]`))
		case "/fapi/v1/openInterest":
			w.Write([]byte(`{"symbol":"BTCUSDT","openInterest":"84523.117"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	s, err := c.FetchSentiment(context.Background(), "BTCUSDT", true)
	if err != nil {
		t.Fatalf("FetchSentiment: %v", err)
	}
	if s.FundingRate == nil || *s.FundingRate != 0.00012 {
		t.Errorf("funding rate = %v", s.FundingRate)
	}
	if s.LongShortRatio == nil || *s.LongShortRatio != 1.85 {
		t.Errorf("long/short ratio = %v", s.LongShortRatio)
	}
	if s.OpenInterest == nil || *s.OpenInterest != 84523.117 {
		t.Errorf("open interest = %v", s.OpenInterest)
	}
}

func TestFetchSentimentPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fapi/v1/premiumIndex":
			http.Error(w, "nope", http.StatusBadRequest)
		case "/futures/data/globalLongShortAccountRatio":
			w.Write([]byte(`[{"longShortRatio":"0.55"}]`))
		case "/fapi/v1/openInterest":
			http.Error(w, "nope", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv.URL, srv.URL)
	s, err := c.FetchSentiment(context.Background(), "BTCUSDT", true)
	if err != nil {
		t.Fatalf("FetchSentiment: %v", err)
	}
	if s.FundingRate != nil {
		t.Error("funding rate should be nil when its endpoint fails")
	}
	if s.LongShortRatio == nil || *s.LongShortRatio != 0.55 {
		t.Errorf("long/short ratio = %v", s.LongShortRatio)
	}
	if s.OpenInterest != nil {
		t.Error("open interest should be nil when its endpoint fails")
	}
}
