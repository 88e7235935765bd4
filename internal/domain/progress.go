package domain

// GoalProgress returns the fraction of the distance from start to target
// already covered by current, clamped to [0, 1]. It handles both losing and
// gaining goals and returns 0 when start equals target.
func GoalProgress(start, target, current float64) float64 {
	total := target - start
	if total == 0 {
		return 0
	}
	return clamp01((current - start) / total)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
