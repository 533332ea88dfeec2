package indicators

import "Moonlander/internal/domain/models"

// Params carries indicator periods, loaded from config at startup.
type Params struct {
	RSIPeriod       int
	EMAFast         int
	EMASlow         int
	EMATrend        int
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	BollingerPeriod int
	BollingerStdDev float64
	VolumePeriod    int
}

// DefaultParams mirrors the standard settings (RSI 14, EMA 9/21/50,
// MACD 12/26/9, Bollinger 20/2, volume MA 20).
func DefaultParams() Params {
	return Params{
		RSIPeriod:       14,
		EMAFast:         9,
		EMASlow:         21,
		EMATrend:        50,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerStdDev: 2,
		VolumePeriod:    20,
	}
}

// Compute derives every indicator snapshot from one timeframe's series.
// Individual snapshots are nil when the series is too short for them;
// a nil IndicatorSet means the series is unusable outright.
func Compute(series *models.CandleSeries, p Params) *models.IndicatorSet {
	if series.Len() == 0 {
		return nil
	}

	closes := series.Closes()
	volumes := series.Volumes()

	return &models.IndicatorSet{
		RSI:        RSI(closes, p.RSIPeriod),
		EMA:        EMATrend(closes, p.EMAFast, p.EMASlow, p.EMATrend),
		MACD:       MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal),
		Bollinger:  Bollinger(closes, p.BollingerPeriod, p.BollingerStdDev),
		Volume:     VolumeRatio(volumes, p.VolumePeriod),
		LastClose:  closes[len(closes)-1],
		LastVolume: volumes[len(volumes)-1],
	}
}
