package standards

// Percent returns round-half-up(100 * part / whole) for non-negative
// inputs, computed in integer arithmetic. A non-positive whole yields 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}

// MeanRounded returns the arithmetic mean of values rounded half-up.
// An empty slice yields 0.
func MeanRounded(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	num, den := 2*sum+len(values), 2*len(values)
	q := num / den
	if num%den != 0 && num < 0 {
		q-- // floor, not truncation
	}
	return q
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
