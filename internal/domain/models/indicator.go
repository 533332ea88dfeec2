package models

// Direction is an indicator's directional reading.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Neutral Direction = "neutral"
)

// RSISnapshot is a Wilder RSI reading. Value is always within [0,100].
type RSISnapshot struct {
	Value    float64
	Signal   Direction
	Strength float64 // [-1,1]
}

// EMASnapshot captures the fast/slow/trend EMA relation at the latest bar.
type EMASnapshot struct {
	Fast            float64
	Slow            float64
	Trend           float64
	FastAboveSlow   bool
	PriceAboveTrend bool
	BullishCross    bool
	BearishCross    bool
	Signal          Direction
	Strength        float64
}

// MACDSnapshot captures MACD line, signal line and histogram state.
type MACDSnapshot struct {
	Line            float64
	SignalLine      float64
	Histogram       float64
	HistogramRising bool
	AboveSignal     bool
	AboveZero       bool
	Signal          Direction
	Strength        float64
}

// BollingerSnapshot holds band values and the normalized position of the
// latest close: Position is -1 at/below the lower band, +1 at/above the
// upper band, 0 at the band center.
type BollingerSnapshot struct {
	Upper    float64
	Middle   float64
	Lower    float64
	PercentB float64
	Position float64
	Signal   Direction
	Strength float64
}

// VolumeSnapshot relates the latest volume to its trailing average.
// Volume has no direction; Strength only confirms moves.
type VolumeSnapshot struct {
	Ratio    float64
	Strength float64
}

// IndicatorSet holds everything computed from one timeframe's series.
// A nil snapshot means the series was too short for that indicator.
type IndicatorSet struct {
	RSI        *RSISnapshot
	EMA        *EMASnapshot
	MACD       *MACDSnapshot
	Bollinger  *BollingerSnapshot
	Volume     *VolumeSnapshot
	LastClose  float64
	LastVolume float64
}
