package indicators

import "Moonlander/internal/domain/models"

// MACD computes the MACD line (fast EMA - slow EMA), its signal line and
// histogram at the latest bar. Requires slow+signal+10 bars.
func MACD(closes []float64, fast, slow, signal int) *models.MACDSnapshot {
	if len(closes) < slow+signal+10 {
		return nil
	}

	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)
	if emaFast == nil || emaSlow == nil {
		return nil
	}

	// Align the fast EMA with the slow EMA's later start.
	offset := len(emaFast) - len(emaSlow)
	if offset < 0 {
		return nil
	}
	emaFast = emaFast[offset:]

	macdLine := make([]float64, len(emaSlow))
	for i := range emaSlow {
		macdLine[i] = emaFast[i] - emaSlow[i]
	}

	signalLine := EMASeries(macdLine, signal)
	if signalLine == nil {
		return nil
	}
	macdLine = macdLine[len(macdLine)-len(signalLine):]

	histogram := make([]float64, len(signalLine))
	for i := range signalLine {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	curMACD := macdLine[len(macdLine)-1]
	curSignal := signalLine[len(signalLine)-1]
	curHist := histogram[len(histogram)-1]
	prevHist := curHist
	if len(histogram) > 1 {
		prevHist = histogram[len(histogram)-2]
	}

	snap := &models.MACDSnapshot{
		Line:            curMACD,
		SignalLine:      curSignal,
		Histogram:       curHist,
		HistogramRising: curHist > prevHist,
		AboveSignal:     curMACD > curSignal,
		AboveZero:       curMACD > 0,
	}

	strength := 0.0
	if snap.AboveSignal {
		strength += 0.3
	} else {
		strength -= 0.3
	}
	if snap.AboveZero {
		strength += 0.2
	} else {
		strength -= 0.2
	}
	if snap.HistogramRising {
		if curHist > 0 {
			strength += 0.3 // rising positive histogram
		} else {
			strength += 0.2 // weakening bearish
		}
	} else {
		if curHist < 0 {
			strength -= 0.3 // falling negative histogram
		} else {
			strength -= 0.2 // weakening bullish
		}
	}

	snap.Strength = clamp(strength, -1, 1)
	snap.Signal = directionFor(snap.Strength)
	return snap
}
