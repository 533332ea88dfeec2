package indicators

import "Moonlander/internal/domain/models"

// VolumeRatio relates the latest volume to its trailing moving average.
// Requires period bars. The ratio confirms strength, it carries no
// direction.
func VolumeRatio(volumes []float64, period int) *models.VolumeSnapshot {
	if period <= 0 || len(volumes) < period {
		return nil
	}

	ma := SMASeries(volumes, period)
	if ma == nil {
		return nil
	}

	current := volumes[len(volumes)-1]
	avg := ma[len(ma)-1]

	ratio := 1.0
	if avg > 0 {
		ratio = current / avg
	}

	snap := &models.VolumeSnapshot{Ratio: ratio}
	switch {
	case ratio >= 2:
		snap.Strength = 1.0
	case ratio >= 1.5:
		snap.Strength = 0.6
	case ratio >= 0.8:
		snap.Strength = 0.3
	default:
		snap.Strength = 0.1
	}
	return snap
}
