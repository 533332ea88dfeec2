package indicators

// EMASeries computes an exponential moving average over values. The first
// output point is the SMA of the first period values, so the result has
// len(values)-period+1 points. Returns nil when history is insufficient.
func EMASeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	out := make([]float64, 0, len(values)-period+1)
	multiplier := 2.0 / (float64(period) + 1.0)

	var sma float64
	for _, v := range values[:period] {
		sma += v
	}
	sma /= float64(period)
	out = append(out, sma)

	for _, v := range values[period:] {
		out = append(out, (v-out[len(out)-1])*multiplier+out[len(out)-1])
	}
	return out
}

// SMASeries computes a simple moving average; the result has
// len(values)-period+1 points. Returns nil when history is insufficient.
func SMASeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	out := make([]float64, 0, len(values)-period+1)
	var sum float64
	for _, v := range values[:period] {
		sum += v
	}
	out = append(out, sum/float64(period))

	for i := period; i < len(values); i++ {
		sum += values[i] - values[i-period]
		out = append(out, sum/float64(period))
	}
	return out
}
