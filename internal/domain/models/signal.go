package models

import "time"

// Labels for the seven signal tiers, -3 through +3.
var TierLabels = map[int]string{
	-3: "STRONG SHORT",
	-2: "SHORT",
	-1: "LEAN SHORT",
	0:  "NEUTRAL",
	1:  "LEAN LONG",
	2:  "LONG",
	3:  "STRONG LONG",
}

// SignalRecord is one asset's published output for a cycle.
type SignalRecord struct {
	Symbol         string              `json:"symbol"`
	Name           string              `json:"name"`
	Category       string              `json:"category"`
	Price          float64             `json:"price"`
	Change24h      float64             `json:"change_24h"`
	RSI            map[string]*float64 `json:"rsi"`
	RSIAligned     int                 `json:"rsi_aligned"`
	EMAAligned     int                 `json:"ema_aligned"`
	MACDAligned    int                 `json:"macd_aligned"`
	FundingRate    *float64            `json:"funding_rate"`
	LongShortRatio *float64            `json:"long_short_ratio"`
	OpenInterest   *float64            `json:"open_interest"`
	CompositeScore float64             `json:"composite_score"`
	Confidence     float64             `json:"confidence"`
	Score          int                 `json:"score"`
	Label          string              `json:"label"`
	GeneratedAt    time.Time           `json:"generated_at"`
}

// Summary aggregates a batch.
type Summary struct {
	Bullish       int            `json:"bullish"`
	Bearish       int            `json:"bearish"`
	Neutral       int            `json:"neutral"`
	StrongSignals int            `json:"strong_signals"`
	Degraded      int            `json:"degraded"`
	ByScore       map[string]int `json:"by_score"`
}

// Batch is one complete generation cycle's output. It is replaced
// wholesale on publish, never mutated; every record carries the batch's
// GeneratedAt.
type Batch struct {
	GeneratedAt time.Time      `json:"generated_at"`
	TotalAssets int            `json:"total_assets"`
	Summary     Summary        `json:"summary"`
	Assets      []SignalRecord `json:"assets"`
}

// Find returns the record for symbol, or nil.
func (b *Batch) Find(symbol string) *SignalRecord {
	if b == nil {
		return nil
	}
	for i := range b.Assets {
		if b.Assets[i].Symbol == symbol {
			return &b.Assets[i]
		}
	}
	return nil
}

// Summarize recomputes summary counts from records. degraded is the number
// of catalog assets that failed this cycle and were omitted.
func Summarize(records []SignalRecord, degraded int) Summary {
	s := Summary{
		Degraded: degraded,
		ByScore: map[string]int{
			"-3": 0, "-2": 0, "-1": 0, "0": 0, "1": 0, "2": 0, "3": 0,
		},
	}
	for _, r := range records {
		switch {
		case r.Score > 0:
			s.Bullish++
		case r.Score < 0:
			s.Bearish++
		default:
			s.Neutral++
		}
		if r.Score >= 2 || r.Score <= -2 {
			s.StrongSignals++
		}
		switch r.Score {
		case -3:
			s.ByScore["-3"]++
		case -2:
			s.ByScore["-2"]++
		case -1:
			s.ByScore["-1"]++
		case 0:
			s.ByScore["0"]++
		case 1:
			s.ByScore["1"]++
		case 2:
			s.ByScore["2"]++
		case 3:
			s.ByScore["3"]++
		}
	}
	return s
}
