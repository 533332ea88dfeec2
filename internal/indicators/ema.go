package indicators

import "Moonlander/internal/domain/models"

// EMATrend evaluates the fast/slow EMA relation plus a longer trend EMA at
// the latest bar. Requires trend+10 bars; returns nil otherwise.
func EMATrend(closes []float64, fast, slow, trend int) *models.EMASnapshot {
	if len(closes) < trend+10 {
		return nil
	}

	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)
	emaTrend := EMASeries(closes, trend)
	if emaFast == nil || emaSlow == nil || emaTrend == nil {
		return nil
	}

	price := closes[len(closes)-1]
	curFast := emaFast[len(emaFast)-1]
	curSlow := emaSlow[len(emaSlow)-1]
	curTrend := emaTrend[len(emaTrend)-1]

	prevFast, prevSlow := curFast, curSlow
	if len(emaFast) > 1 {
		prevFast = emaFast[len(emaFast)-2]
	}
	if len(emaSlow) > 1 {
		prevSlow = emaSlow[len(emaSlow)-2]
	}

	snap := &models.EMASnapshot{
		Fast:            curFast,
		Slow:            curSlow,
		Trend:           curTrend,
		FastAboveSlow:   curFast > curSlow,
		PriceAboveTrend: price > curTrend,
		BullishCross:    prevFast <= prevSlow && curFast > curSlow,
		BearishCross:    prevFast >= prevSlow && curFast < curSlow,
	}

	strength := 0.0
	if snap.PriceAboveTrend {
		strength += 0.4
	} else {
		strength -= 0.4
	}
	if snap.FastAboveSlow {
		strength += 0.4
	} else {
		strength -= 0.4
	}
	if snap.BullishCross {
		strength += 0.2
	} else if snap.BearishCross {
		strength -= 0.2
	}

	snap.Strength = clamp(strength, -1, 1)
	snap.Signal = directionFor(snap.Strength)
	return snap
}

func directionFor(strength float64) models.Direction {
	switch {
	case strength > 0.2:
		return models.Bullish
	case strength < -0.2:
		return models.Bearish
	default:
		return models.Neutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
