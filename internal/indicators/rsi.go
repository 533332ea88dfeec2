package indicators

import "Moonlander/internal/domain/models"

// RSI computes the Wilder-smoothed Relative Strength Index over the given
// period. Requires at least period+1 bars; returns nil when the series is
// too short. The returned value is always within [0,100].
func RSI(closes []float64, period int) *models.RSISnapshot {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	// Initial average gain/loss over the first `period` changes.
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing for remaining bars.
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	var rsi float64
	if avgLoss == 0 {
		rsi = 100.0
	} else {
		rs := avgGain / avgLoss
		rsi = 100.0 - 100.0/(1.0+rs)
	}

	snap := &models.RSISnapshot{Value: rsi}
	switch {
	case rsi <= 20:
		snap.Signal, snap.Strength = models.Bullish, 1.0
	case rsi <= 30:
		snap.Signal, snap.Strength = models.Bullish, 0.6
	case rsi >= 80:
		snap.Signal, snap.Strength = models.Bearish, -1.0
	case rsi >= 70:
		snap.Signal, snap.Strength = models.Bearish, -0.6
	default:
		// Neutral zone scales toward the extremes: 50 maps to 0.
		snap.Signal = models.Neutral
		snap.Strength = (50 - rsi) / 50 * 0.3
	}
	return snap
}
