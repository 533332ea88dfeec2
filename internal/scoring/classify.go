package scoring

// Classify maps a composite score onto the seven tiers, -3 through +3.
// Cut points are inclusive toward the stronger tier: a composite sitting
// exactly on a threshold takes the stronger label.
func (e *Engine) Classify(composite float64) int {
	t := e.thresholds
	switch {
	case composite >= t.Strong:
		return 3
	case composite >= t.Clear:
		return 2
	case composite >= t.Lean:
		return 1
	case composite <= -t.Strong:
		return -3
	case composite <= -t.Clear:
		return -2
	case composite <= -t.Lean:
		return -1
	default:
		return 0
	}
}
