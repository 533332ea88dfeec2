package indicators

import (
	"math"

	"Moonlander/internal/domain/models"
)

// Bollinger computes the bands over the trailing period and the position
// of the latest close within them. Position maps %B into [-1,1]: -1 at or
// below the lower band, +1 at or above the upper band, 0 at the center.
func Bollinger(closes []float64, period int, stdDev float64) *models.BollingerSnapshot {
	if period <= 0 || len(closes) < period {
		return nil
	}

	window := closes[len(closes)-period:]
	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(period)

	var variance float64
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))

	upper := mean + std*stdDev
	lower := mean - std*stdDev
	price := closes[len(closes)-1]

	// %B = (price - lower) / (upper - lower); flat window degenerates to 0.5.
	percentB := 0.5
	if width := upper - lower; width > 0 {
		percentB = (price - lower) / width
	}

	snap := &models.BollingerSnapshot{
		Upper:    upper,
		Middle:   mean,
		Lower:    lower,
		PercentB: percentB,
		Position: clamp(2*percentB-1, -1, 1),
	}

	switch {
	case percentB <= 0:
		snap.Signal, snap.Strength = models.Bullish, 0.8
	case percentB <= 0.2:
		snap.Signal, snap.Strength = models.Bullish, 0.5
	case percentB >= 1:
		snap.Signal, snap.Strength = models.Bearish, -0.8
	case percentB >= 0.8:
		snap.Signal, snap.Strength = models.Bearish, -0.5
	default:
		snap.Signal = models.Neutral
		snap.Strength = (0.5 - percentB) * 0.4
	}
	return snap
}
