package indicators

import (
	"math"
	"testing"

	"Moonlander/internal/domain/models"
)

func risingCloses(n int) []float64 {
	out := make([]float64, n)
	price := 100.0
	for i := range out {
		out[i] = price
		price *= 1.01
	}
	return out
}

func fallingCloses(n int) []float64 {
	out := make([]float64, n)
	price := 100.0
	for i := range out {
		out[i] = price
		price *= 0.99
	}
	return out
}

func TestRSI_InsufficientHistory(t *testing.T) {
	if got := RSI(risingCloses(14), 14); got != nil {
		t.Fatalf("expected nil for 14 bars with period 14, got %+v", got)
	}
	if got := RSI(nil, 14); got != nil {
		t.Fatalf("expected nil for empty series, got %+v", got)
	}
}

func TestRSI_MonotoneSeries(t *testing.T) {
	up := RSI(risingCloses(50), 14)
	if up == nil {
		t.Fatal("expected snapshot")
	}
	if up.Value != 100 {
		t.Fatalf("all-gains series should hit RSI 100, got %v", up.Value)
	}
	if up.Signal != models.Bearish || up.Strength != -1.0 {
		t.Fatalf("overbought extreme should read bearish -1.0, got %v/%v", up.Signal, up.Strength)
	}

	down := RSI(fallingCloses(50), 14)
	if down == nil {
		t.Fatal("expected snapshot")
	}
	if down.Value > 1 {
		t.Fatalf("all-losses series should sit near RSI 0, got %v", down.Value)
	}
	if down.Signal != models.Bullish || down.Strength != 1.0 {
		t.Fatalf("oversold extreme should read bullish 1.0, got %v/%v", down.Signal, down.Strength)
	}
}

func TestRSI_BalancedSeriesIsNeutral(t *testing.T) {
	// Alternating equal-sized moves keep average gain and loss identical.
	closes := make([]float64, 41)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 1 {
			closes[i] = closes[i-1] + 1
		} else {
			closes[i] = closes[i-1] - 1
		}
	}

	snap := RSI(closes, 14)
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if math.Abs(snap.Value-50) > 1 {
		t.Fatalf("balanced series should sit near RSI 50, got %v", snap.Value)
	}
	if snap.Signal != models.Neutral {
		t.Fatalf("expected neutral, got %v", snap.Signal)
	}
	if math.Abs(snap.Strength) > 0.05 {
		t.Fatalf("neutral strength should be near zero, got %v", snap.Strength)
	}
}

func TestRSI_ValueBounded(t *testing.T) {
	for _, closes := range [][]float64{risingCloses(60), fallingCloses(60)} {
		snap := RSI(closes, 14)
		if snap.Value < 0 || snap.Value > 100 {
			t.Fatalf("RSI out of range: %v", snap.Value)
		}
	}
}

func TestEMATrend_Uptrend(t *testing.T) {
	snap := EMATrend(risingCloses(80), 9, 21, 50)
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if !snap.FastAboveSlow || !snap.PriceAboveTrend {
		t.Fatalf("uptrend should stack fast>slow and price>trend: %+v", snap)
	}
	if snap.Signal != models.Bullish || snap.Strength <= 0 {
		t.Fatalf("expected bullish positive strength, got %v/%v", snap.Signal, snap.Strength)
	}
}

func TestEMATrend_Downtrend(t *testing.T) {
	snap := EMATrend(fallingCloses(80), 9, 21, 50)
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.FastAboveSlow || snap.PriceAboveTrend {
		t.Fatalf("downtrend should invert the stack: %+v", snap)
	}
	if snap.Signal != models.Bearish || snap.Strength >= 0 {
		t.Fatalf("expected bearish negative strength, got %v/%v", snap.Signal, snap.Strength)
	}
}

func TestEMATrend_InsufficientHistory(t *testing.T) {
	if got := EMATrend(risingCloses(59), 9, 21, 50); got != nil {
		t.Fatalf("expected nil below trend+10 bars, got %+v", got)
	}
}

func TestMACD_Uptrend(t *testing.T) {
	snap := MACD(risingCloses(80), 12, 26, 9)
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if !snap.AboveZero {
		t.Fatalf("sustained uptrend should keep MACD above zero: %+v", snap)
	}
	if snap.Signal != models.Bullish || snap.Strength <= 0 {
		t.Fatalf("expected bullish positive strength, got %v/%v", snap.Signal, snap.Strength)
	}
}

func TestMACD_InsufficientHistory(t *testing.T) {
	if got := MACD(risingCloses(44), 12, 26, 9); got != nil {
		t.Fatalf("expected nil below slow+signal+10 bars, got %+v", got)
	}
}

func TestBollinger_Zones(t *testing.T) {
	base := make([]float64, 20)
	for i := range base {
		base[i] = 100
	}

	spike := append(append([]float64{}, base[:19]...), 120)
	snap := Bollinger(spike, 20, 2)
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.PercentB < 1 {
		t.Fatalf("spike above upper band should push %%B past 1, got %v", snap.PercentB)
	}
	if snap.Signal != models.Bearish || snap.Strength != -0.8 {
		t.Fatalf("expected bearish -0.8 at the upper extreme, got %v/%v", snap.Signal, snap.Strength)
	}
	if snap.Position != 1 {
		t.Fatalf("position should clamp to 1, got %v", snap.Position)
	}

	drop := append(append([]float64{}, base[:19]...), 80)
	snap = Bollinger(drop, 20, 2)
	if snap.Signal != models.Bullish || snap.Strength != 0.8 {
		t.Fatalf("expected bullish 0.8 at the lower extreme, got %v/%v", snap.Signal, snap.Strength)
	}
	if snap.Position != -1 {
		t.Fatalf("position should clamp to -1, got %v", snap.Position)
	}
}

func TestBollinger_FlatWindow(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}

	snap := Bollinger(flat, 20, 2)
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.PercentB != 0.5 || snap.Position != 0 {
		t.Fatalf("flat window should degenerate to center: %%B=%v pos=%v", snap.PercentB, snap.Position)
	}
	if snap.Signal != models.Neutral || snap.Strength != 0 {
		t.Fatalf("expected neutral zero strength, got %v/%v", snap.Signal, snap.Strength)
	}
}

func TestBollinger_InsufficientHistory(t *testing.T) {
	if got := Bollinger(risingCloses(19), 20, 2); got != nil {
		t.Fatalf("expected nil below period bars, got %+v", got)
	}
}

func TestVolumeRatio_Ladder(t *testing.T) {
	cases := []struct {
		last     float64
		strength float64
	}{
		{40, 1.0}, // ratio 2.5
		{20, 0.6}, // ratio 1.67
		{10, 0.3}, // ratio 1.0
		{5, 0.1},  // ratio 0.56
	}
	for _, tc := range cases {
		volumes := []float64{10, 10, 10, 10, tc.last}
		snap := VolumeRatio(volumes, 5)
		if snap == nil {
			t.Fatalf("expected snapshot for last=%v", tc.last)
		}
		if snap.Strength != tc.strength {
			t.Fatalf("last=%v: expected strength %v, got %v (ratio %v)",
				tc.last, tc.strength, snap.Strength, snap.Ratio)
		}
	}
}

func TestVolumeRatio_ZeroAverage(t *testing.T) {
	snap := VolumeRatio([]float64{0, 0, 0, 0, 0}, 5)
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.Ratio != 1.0 {
		t.Fatalf("zero average should default ratio to 1, got %v", snap.Ratio)
	}
}

func TestEMASeries(t *testing.T) {
	got := EMASeries([]float64{1, 2, 3, 4}, 2)
	want := []float64{1.5, 2.5, 3.5}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if EMASeries([]float64{1}, 2) != nil {
		t.Fatal("expected nil for insufficient history")
	}
}

func TestSMASeries(t *testing.T) {
	got := SMASeries([]float64{2, 2, 4, 4}, 2)
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("point %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func seriesFrom(closes []float64) *models.CandleSeries {
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			OpenTime: int64(i),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			Volume:   1000,
		}
	}
	return &models.CandleSeries{Pair: "BTCUSDT", Timeframe: "1h", Candles: candles}
}

func TestCompute_FullSeries(t *testing.T) {
	set := Compute(seriesFrom(risingCloses(200)), DefaultParams())
	if set == nil {
		t.Fatal("expected indicator set")
	}
	if set.RSI == nil || set.EMA == nil || set.MACD == nil || set.Bollinger == nil || set.Volume == nil {
		t.Fatalf("200 bars should fill every snapshot: %+v", set)
	}
	if set.LastClose != risingCloses(200)[199] {
		t.Fatalf("last close mismatch: %v", set.LastClose)
	}
	if set.LastVolume != 1000 {
		t.Fatalf("last volume mismatch: %v", set.LastVolume)
	}
}

func TestCompute_ShortSeriesDegradesPerIndicator(t *testing.T) {
	set := Compute(seriesFrom(risingCloses(30)), DefaultParams())
	if set == nil {
		t.Fatal("expected indicator set")
	}
	if set.RSI == nil || set.Bollinger == nil || set.Volume == nil {
		t.Fatal("30 bars should still cover RSI, Bollinger and volume")
	}
	if set.EMA != nil || set.MACD != nil {
		t.Fatal("30 bars should not cover trend EMA or MACD")
	}
}

func TestCompute_EmptySeries(t *testing.T) {
	if got := Compute(&models.CandleSeries{}, DefaultParams()); got != nil {
		t.Fatalf("expected nil for empty series, got %+v", got)
	}
	if got := Compute(nil, DefaultParams()); got != nil {
		t.Fatalf("expected nil for nil series, got %+v", got)
	}
}
