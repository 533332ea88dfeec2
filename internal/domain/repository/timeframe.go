package repository

// Timeframe identifies one of the analysis resolutions.
type Timeframe string

const (
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// Timeframes lists every analysis timeframe in ascending resolution order.
func Timeframes() []Timeframe {
	return []Timeframe{TF15m, TF1h, TF4h, TF1d}
}
