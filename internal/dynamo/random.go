package dynamo

import "math/rand"

// NewRand returns a generator seeded deterministically.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomInt returns a uniform integer in [min, max], both inclusive.
func RandomInt(r *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return r.Intn(max-min+1) + min
}

// RandomRange returns a uniform float in [min, max).
func RandomRange(r *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.Float64()*(max-min)
}

// Choose picks one element of items uniformly. It panics on an empty slice.
func Choose[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}
