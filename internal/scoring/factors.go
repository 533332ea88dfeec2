package scoring

import (
	"math"

	"Moonlander/internal/domain/models"
	"Moonlander/internal/domain/repository"
)

// Weights for the seven factors. They must sum to 1.0; config validation
// enforces that before an Engine is built.
type Weights struct {
	RSI         float64
	EMA         float64
	MACD        float64
	Bollinger   float64
	Volume      float64
	Sentiment   float64
	Liquidation float64
}

// Thresholds are the tier cut points on the composite score.
type Thresholds struct {
	Lean   float64
	Clear  float64
	Strong float64
}

// Inputs is everything one asset contributes to a scoring pass.
type Inputs struct {
	ByTimeframe map[repository.Timeframe]*models.IndicatorSet
	Sentiment   *models.Sentiment
}

// Result is the scored outcome for one asset.
type Result struct {
	Composite   float64
	Confidence  float64
	Score       int
	Label       string
	RSIAligned  int
	EMAAligned  int
	MACDAligned int
	Factors     map[string]float64
}

// Engine scores assets with fixed weights and thresholds.
type Engine struct {
	weights    Weights
	thresholds Thresholds
}

func NewEngine(w Weights, t Thresholds) *Engine {
	return &Engine{weights: w, thresholds: t}
}

// Timeframe weights for the Bollinger factor. Higher resolutions count
// more; mean reversion on a daily band outweighs a 15m squeeze.
var bollingerTFWeights = map[repository.Timeframe]float64{
	repository.TF15m: 0.1,
	repository.TF1h:  0.2,
	repository.TF4h:  0.3,
	repository.TF1d:  0.4,
}

// Score combines the per-timeframe indicator sets and sentiment into a
// composite in [-1,1]. Factors whose inputs are missing are excluded and
// the remaining weights renormalized to 1.0, so a thin asset is scored on
// what it has rather than dragged toward zero.
func (e *Engine) Score(in Inputs) Result {
	res := Result{Factors: make(map[string]float64, 7)}

	type factor struct {
		name   string
		weight float64
		value  float64
		ok     bool
	}

	rsiScore, rsiAligned, rsiOK := e.rsiFactor(in)
	emaScore, emaAligned, emaOK := e.emaFactor(in)
	macdScore, macdAligned, macdOK := e.macdFactor(in)
	bbScore, bbOK := e.bollingerFactor(in)
	sentScore, sentOK := e.sentimentFactor(in.Sentiment)
	liqScore, liqOK := e.liquidationFactor(in)

	res.RSIAligned = rsiAligned
	res.EMAAligned = emaAligned
	res.MACDAligned = macdAligned

	directional := []factor{
		{"rsi", e.weights.RSI, rsiScore, rsiOK},
		{"ema", e.weights.EMA, emaScore, emaOK},
		{"macd", e.weights.MACD, macdScore, macdOK},
		{"bollinger", e.weights.Bollinger, bbScore, bbOK},
		{"sentiment", e.weights.Sentiment, sentScore, sentOK},
		{"liquidation", e.weights.Liquidation, liqScore, liqOK},
	}

	// First pass over the directional factors fixes the sign the volume
	// factor confirms; volume has no direction of its own.
	var dirSum, dirWeight float64
	for _, f := range directional {
		if !f.ok {
			continue
		}
		dirSum += f.weight * f.value
		dirWeight += f.weight
	}

	volStrength, volOK := e.volumeStrength(in)
	factors := directional
	if volOK && dirWeight > 0 {
		volScore := volStrength * sign(dirSum)
		factors = append(factors, factor{"volume", e.weights.Volume, volScore, true})
	}

	var sum, total float64
	for _, f := range factors {
		if !f.ok {
			continue
		}
		res.Factors[f.name] = f.value
		sum += f.weight * f.value
		total += f.weight
	}
	if total == 0 {
		return res
	}

	composite := sum / total

	// Strong volume confirms an existing move; it never creates one.
	if volOK && volStrength > 0.5 && math.Abs(composite) > 0.2 {
		composite += 0.1 * sign(composite)
	}
	res.Composite = clamp(composite, -1, 1)

	res.Confidence = e.confidence(res.Composite, factors2agreement(res.Factors, res.Composite))
	res.Score = e.Classify(res.Composite)
	res.Label = models.TierLabels[res.Score]
	return res
}

type agreement struct {
	agreeing, directional int
}

// Volume and liquidation are confirmation reads, not independent calls
// on direction, so neither counts toward agreement.
func factors2agreement(factors map[string]float64, composite float64) agreement {
	var a agreement
	s := sign(composite)
	for name, v := range factors {
		if name == "volume" || name == "liquidation" {
			continue
		}
		if v == 0 {
			continue
		}
		a.directional++
		if sign(v) == s {
			a.agreeing++
		}
	}
	return a
}

// confidence is the fraction of non-zero directional factors whose sign
// matches the composite's.
func (e *Engine) confidence(composite float64, a agreement) float64 {
	if composite == 0 || a.directional == 0 {
		return 0
	}
	return float64(a.agreeing) / float64(a.directional)
}

// rsiFactor scores multi-timeframe RSI alignment. Full agreement across
// all four timeframes is the strongest oversold/overbought read.
func (e *Engine) rsiFactor(in Inputs) (score float64, aligned int, ok bool) {
	var bull, bear, present int
	var strengthSum float64

	for _, tf := range repository.Timeframes() {
		set := in.ByTimeframe[tf]
		if set == nil || set.RSI == nil {
			continue
		}
		present++
		strengthSum += set.RSI.Strength
		switch set.RSI.Signal {
		case models.Bullish:
			bull++
		case models.Bearish:
			bear++
		}
	}
	if present == 0 {
		return 0, 0, false
	}

	aligned = bull
	dir := 1.0
	if bear > bull {
		aligned = bear
		dir = -1
	}

	switch {
	case aligned == 4:
		score = dir
	case aligned == 3:
		score = 0.7 * dir
	case aligned == 2 && bull*bear == 0:
		score = 0.4 * dir
	default:
		score = strengthSum / float64(present) * 0.3
	}
	return clamp(score, -1, 1), aligned, true
}

// emaFactor scores fast/slow EMA alignment, boosted when the longer trend
// EMA confirms on most timeframes.
func (e *Engine) emaFactor(in Inputs) (score float64, aligned int, ok bool) {
	var bull, bear, present int
	var aboveTrend, belowTrend int
	var strengthSum float64

	for _, tf := range repository.Timeframes() {
		set := in.ByTimeframe[tf]
		if set == nil || set.EMA == nil {
			continue
		}
		present++
		strengthSum += set.EMA.Strength
		if set.EMA.FastAboveSlow {
			bull++
		} else {
			bear++
		}
		if set.EMA.PriceAboveTrend {
			aboveTrend++
		} else {
			belowTrend++
		}
	}
	if present == 0 {
		return 0, 0, false
	}

	aligned = bull
	dir := 1.0
	if bear > bull {
		aligned = bear
		dir = -1
	}

	switch {
	case aligned == 4:
		score = dir
	case aligned == 3:
		score = 0.65 * dir
	default:
		score = strengthSum / float64(present) * 0.4
	}

	if dir > 0 && aboveTrend >= 3 {
		score += 0.2
	} else if dir < 0 && belowTrend >= 3 {
		score -= 0.2
	}
	return clamp(score, -1, 1), aligned, true
}

// macdFactor scores MACD-above-signal alignment across timeframes.
func (e *Engine) macdFactor(in Inputs) (score float64, aligned int, ok bool) {
	var bull, bear, present int
	var strengthSum float64

	for _, tf := range repository.Timeframes() {
		set := in.ByTimeframe[tf]
		if set == nil || set.MACD == nil {
			continue
		}
		present++
		strengthSum += set.MACD.Strength
		if set.MACD.AboveSignal {
			bull++
		} else {
			bear++
		}
	}
	if present == 0 {
		return 0, 0, false
	}

	aligned = bull
	dir := 1.0
	if bear > bull {
		aligned = bear
		dir = -1
	}

	switch {
	case aligned == 4:
		score = dir
	case aligned == 3:
		score = 0.6 * dir
	default:
		score = strengthSum / float64(present) * 0.35
	}
	return clamp(score, -1, 1), aligned, true
}

// bollingerFactor is a timeframe-weighted mean-reversion read: band
// touches on higher resolutions dominate.
func (e *Engine) bollingerFactor(in Inputs) (score float64, ok bool) {
	var sum, total float64
	for _, tf := range repository.Timeframes() {
		set := in.ByTimeframe[tf]
		if set == nil || set.Bollinger == nil {
			continue
		}
		w := bollingerTFWeights[tf]
		sum += w * set.Bollinger.Strength
		total += w
	}
	if total == 0 {
		return 0, false
	}
	return clamp(sum/total, -1, 1), true
}

// volumeStrength averages the volume-ratio strengths across timeframes.
func (e *Engine) volumeStrength(in Inputs) (strength float64, ok bool) {
	var sum float64
	var present int
	for _, tf := range repository.Timeframes() {
		set := in.ByTimeframe[tf]
		if set == nil || set.Volume == nil {
			continue
		}
		sum += set.Volume.Strength
		present++
	}
	if present == 0 {
		return 0, false
	}
	return sum / float64(present), true
}

// sentimentFactor reads futures positioning contrarian: crowded longs
// (high positive funding, lopsided long/short ratio) score bearish and
// vice versa.
func (e *Engine) sentimentFactor(s *models.Sentiment) (score float64, ok bool) {
	if s == nil || (s.FundingRate == nil && s.LongShortRatio == nil) {
		return 0, false
	}

	if s.FundingRate != nil {
		switch fr := *s.FundingRate; {
		case fr > 0.001:
			score -= 0.6
		case fr > 0.0005:
			score -= 0.3
		case fr < -0.001:
			score += 0.6
		case fr < -0.0005:
			score += 0.3
		}
	}
	if s.LongShortRatio != nil {
		switch ls := *s.LongShortRatio; {
		case ls > 2:
			score -= 0.3
		case ls > 1.5:
			score -= 0.15
		case ls < 0.5:
			score += 0.3
		case ls < 0.67:
			score += 0.15
		}
	}
	return clamp(score, -1, 1), true
}

// liquidationFactor estimates liquidation pressure. Price extended on the
// 4h band means positions are crowding one side, and extreme funding
// confirms it; the likely liquidation cluster sits on the far side of the
// move and acts as a magnet.
func (e *Engine) liquidationFactor(in Inputs) (score float64, ok bool) {
	if set := in.ByTimeframe[repository.TF4h]; set != nil && set.Bollinger != nil {
		ok = true
		switch pb := set.Bollinger.PercentB; {
		case pb > 0.9:
			score -= 0.3
		case pb < 0.1:
			score += 0.3
		}
	}
	if in.Sentiment != nil && in.Sentiment.FundingRate != nil {
		ok = true
		switch fr := *in.Sentiment.FundingRate; {
		case fr > 0.0005:
			score -= 0.4
		case fr > 0.0002:
			score -= 0.2
		case fr < -0.0005:
			score += 0.4
		case fr < -0.0002:
			score += 0.2
		}
	}
	if !ok {
		return 0, false
	}
	return clamp(score, -1, 1), true
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
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
