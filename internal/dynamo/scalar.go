package dynamo

import "math"

// Clamp limits value to [min, max]. Argument order follows the physics code,
// where the bounds are usually computed first.
func Clamp(min, max, value float64) float64 {
	return math.Max(min, math.Min(max, value))
}

// IsFinite reports whether every value is neither NaN nor ±Inf.
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
