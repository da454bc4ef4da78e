package core

import (
	"cmp"
	"math"
)

// Clamp limits v to [lo, hi]. Swapped bounds are reordered.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}

	return min(max(v, lo), hi)
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return x-x == 0
}

// AllFinite reports whether every value in data is finite.
func AllFinite(data []float64) bool {
	for _, v := range data {
		if v-v != 0 {
			return false
		}
	}

	return true
}

// DBToLinear converts an amplitude level in dB to a linear gain.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts a linear amplitude to dB: -Inf at zero, NaN below.
func LinearToDB(linear float64) float64 {
	switch {
	case linear > 0:
		return 20 * math.Log10(linear)
	case linear == 0:
		return math.Inf(-1)
	default:
		return math.NaN()
	}
}

// FloorDB raises db to floor when it is lower or NaN. Report fields pass
// through it because JSON cannot carry -Inf.
func FloorDB(db, floor float64) float64 {
	if db >= floor {
		return db
	}

	return floor
}
