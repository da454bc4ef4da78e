// Package time computes level statistics of sample blocks in the time domain.
package time

import (
	"math"

	"github.com/cwbudde/algo-audioscope/dsp/core"
)

// SilenceDB is the level reported for silent blocks in place of -Inf.
const SilenceDB = -200.0

// Stats holds level statistics of one block. The dB fields are relative
// to full scale (|x| = 1) and floored at SilenceDB.
type Stats struct {
	Length        int     `json:"length"`
	DC            float64 `json:"dc"`
	RMS           float64 `json:"rms"`
	RMSDB         float64 `json:"rmsDb"`
	Peak          float64 `json:"peak"`
	PeakDB        float64 `json:"peakDb"`
	PeakPos       int     `json:"peakPos"`
	CrestFactor   float64 `json:"crestFactor"`
	CrestFactorDB float64 `json:"crestFactorDb"`
	ZeroCrossings int     `json:"zeroCrossings"`
	Clipped       int     `json:"clipped"`
}

func levelDB(v float64) float64 {
	return core.FloorDB(core.LinearToDB(math.Abs(v)), SilenceDB)
}

// Calculate computes all statistics in a single pass. Samples with
// |x| >= 1 count as clipped.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{RMSDB: SilenceDB, PeakDB: SilenceDB}
	}

	var (
		sum, c    float64
		sumSq     float64
		peak      float64
		peakPos   int
		crossings int
		clipped   int
	)

	for i, x := range signal {
		// Kahan summation keeps the mean exact for long blocks.
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t

		sumSq += x * x

		a := math.Abs(x)
		if a > peak {
			peak = a
			peakPos = i
		}

		if a >= 1 {
			clipped++
		}

		if i > 0 && signal[i-1]*x < 0 {
			crossings++
		}
	}

	rms := math.Sqrt(sumSq / float64(n))

	var crest, crestDB float64
	if rms > 0 {
		crest = peak / rms
		crestDB = core.LinearToDB(crest)
	}

	return Stats{
		Length:        n,
		DC:            sum / float64(n),
		RMS:           rms,
		RMSDB:         levelDB(rms),
		Peak:          peak,
		PeakDB:        levelDB(peak),
		PeakPos:       peakPos,
		CrestFactor:   crest,
		CrestFactorDB: crestDB,
		ZeroCrossings: crossings,
		Clipped:       clipped,
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// DC returns the mean (DC offset) of the signal.
func DC(signal []float64) float64 {
	return Calculate(signal).DC
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	peak := 0.0
	for _, x := range signal {
		peak = max(peak, math.Abs(x))
	}

	return peak
}

// CrestFactor returns the crest factor (peak / RMS) of the signal.
// Returns 0 if RMS is zero.
func CrestFactor(signal []float64) float64 {
	r := RMS(signal)
	if r == 0 {
		return 0
	}

	return Peak(signal) / r
}
