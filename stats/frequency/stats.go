// Package frequency computes shape descriptors of magnitude spectra.
package frequency

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-audioscope/dsp/core"
)

// DefaultRolloff is the energy fraction used by Calculate for Rolloff.
const DefaultRolloff = 0.85

// ErrMismatchedLength indicates frequency and magnitude slices of
// different lengths.
var ErrMismatchedLength = errors.New("frequency: mismatched lengths")

// Stats describes where the energy of a spectrum sits. All values are in
// Hz except Flatness, which is in [0, 1].
type Stats struct {
	PeakHz    float64 `json:"peakHz"`
	Centroid  float64 `json:"centroidHz"`
	Spread    float64 `json:"spreadHz"`
	Flatness  float64 `json:"flatness"`
	Rolloff   float64 `json:"rolloffHz"`
	Bandwidth float64 `json:"bandwidthHz"`
}

// Calculate derives Stats from linear magnitudes at the given bin
// frequencies. The first bin is taken to be DC and is ignored by Flatness.
func Calculate(freqs, magnitude []float64) (Stats, error) {
	if len(freqs) != len(magnitude) {
		return Stats{}, fmt.Errorf("%w: %d frequencies, %d magnitudes", ErrMismatchedLength, len(freqs), len(magnitude))
	}

	if len(magnitude) < 2 {
		return Stats{}, nil
	}

	var sum, energy float64

	peak := 0
	for i, v := range magnitude {
		sum += v
		energy += v * v

		if v > magnitude[peak] {
			peak = i
		}
	}

	s := Stats{
		PeakHz:    freqs[peak],
		Flatness:  Flatness(magnitude),
		Rolloff:   rolloff(freqs, magnitude, DefaultRolloff, energy),
		Bandwidth: Bandwidth(freqs, magnitude),
	}

	if sum > 0 {
		s.Centroid = centroid(freqs, magnitude, sum)
		s.Spread = spread(freqs, magnitude, s.Centroid, sum)
	}

	return s, nil
}

// CalculateDB is Calculate for levels in dB (20·log10 amplitude).
func CalculateDB(freqs, levelsDB []float64) (Stats, error) {
	mag := make([]float64, len(levelsDB))
	for i, db := range levelsDB {
		mag[i] = core.DBToLinear(db)
	}

	return Calculate(freqs, mag)
}

// Centroid returns the magnitude-weighted mean frequency.
func Centroid(freqs, magnitude []float64) float64 {
	sum := 0.0
	for _, v := range magnitude {
		sum += v
	}

	if sum == 0 || len(freqs) != len(magnitude) {
		return 0
	}

	return centroid(freqs, magnitude, sum)
}

func centroid(freqs, magnitude []float64, sum float64) float64 {
	weighted := 0.0
	for i, v := range magnitude {
		weighted += freqs[i] * v
	}

	return weighted / sum
}

// spread is the magnitude-weighted standard deviation around cent.
func spread(freqs, magnitude []float64, cent, sum float64) float64 {
	weighted := 0.0
	for i, v := range magnitude {
		d := freqs[i] - cent
		weighted += d * d * v
	}

	return math.Sqrt(weighted / sum)
}

// Flatness returns the ratio of geometric to arithmetic mean of all bins
// but DC. A zero bin makes it zero.
func Flatness(magnitude []float64) float64 {
	if len(magnitude) < 2 {
		return 0
	}

	bins := magnitude[1:]
	sumLin, sumLog := 0.0, 0.0

	for _, v := range bins {
		if v <= 0 {
			return 0
		}

		sumLin += v
		sumLog += math.Log(v)
	}

	n := float64(len(bins))

	return math.Exp(sumLog/n) / (sumLin / n)
}

// Rolloff returns the lowest bin frequency below which fraction of the
// energy (sum of squared magnitudes) lies.
func Rolloff(freqs, magnitude []float64, fraction float64) float64 {
	if len(freqs) != len(magnitude) {
		return 0
	}

	energy := 0.0
	for _, v := range magnitude {
		energy += v * v
	}

	return rolloff(freqs, magnitude, fraction, energy)
}

func rolloff(freqs, magnitude []float64, fraction, energy float64) float64 {
	if len(magnitude) == 0 || energy == 0 {
		return 0
	}

	threshold := fraction * energy
	cum := 0.0

	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			return freqs[i]
		}
	}

	return freqs[len(freqs)-1]
}

// Bandwidth returns the width of the region around the peak that stays
// above peak/sqrt(2), interpolating linearly between bins.
func Bandwidth(freqs, magnitude []float64) float64 {
	n := len(magnitude)
	if n < 2 || len(freqs) != n {
		return 0
	}

	peak := 0
	for i, v := range magnitude {
		if v > magnitude[peak] {
			peak = i
		}
	}

	if magnitude[peak] == 0 {
		return 0
	}

	threshold := magnitude[peak] / math.Sqrt2

	lower := freqs[0]
	for i := peak; i >= 1; i-- {
		if magnitude[i-1] <= threshold {
			lower = crossing(freqs[i-1], freqs[i], magnitude[i-1], magnitude[i], threshold)
			break
		}
	}

	upper := freqs[n-1]
	for i := peak; i < n-1; i++ {
		if magnitude[i+1] <= threshold {
			upper = crossing(freqs[i], freqs[i+1], magnitude[i], magnitude[i+1], threshold)
			break
		}
	}

	return max(0, upper-lower)
}

// crossing returns where the line through (f0, m0) and (f1, m1) reaches
// threshold.
func crossing(f0, f1, m0, m1, threshold float64) float64 {
	if m1 == m0 {
		return (f0 + f1) / 2
	}

	return f0 + (threshold-m0)/(m1-m0)*(f1-f0)
}
