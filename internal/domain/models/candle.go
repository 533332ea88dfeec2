package models

// Candle is one OHLCV bar.
type Candle struct {
	OpenTime int64   `json:"t"`
	Open     float64 `json:"o"`
	High     float64 `json:"h"`
	Low      float64 `json:"l"`
	Close    float64 `json:"c"`
	Volume   float64 `json:"v"`
}

// CandleSeries is a chronological series of bars for one (pair, timeframe).
// Fetched fresh each cycle, never persisted.
type CandleSeries struct {
	Pair      string
	Timeframe string
	Candles   []Candle
}

func (s *CandleSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candles)
}

// Closes returns the close prices in chronological order.
func (s *CandleSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Volumes returns the volumes in chronological order.
func (s *CandleSeries) Volumes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Volume
	}
	return out
}

// Ticker is the 24h spot ticker for a pair.
type Ticker struct {
	Pair           string
	Price          float64
	ChangePct24h   float64
	High24h        float64
	Low24h         float64
	QuoteVolume24h float64
}

// Sentiment carries derivatives-market positioning for one asset. Both
// fields are nil when the asset has no futures listing or the data could
// not be fetched this cycle; a missing reading is never encoded as zero.
type Sentiment struct {
	FundingRate    *float64
	LongShortRatio *float64
	OpenInterest   *float64
}

// Available reports whether any sentiment reading is present.
func (s *Sentiment) Available() bool {
	return s != nil && (s.FundingRate != nil || s.LongShortRatio != nil || s.OpenInterest != nil)
}
