package resample

import (
	"fmt"
	"math"
)

// designPolyphaseFIR designs a Kaiser-windowed sinc low-pass at the lower
// of the two Nyquist rates and splits it into up polyphase branches. The
// prototype is odd-length and centred on a multiple of down, so its group
// delay is a whole number of output samples; that number is returned.
func designPolyphaseFIR(up, down int, p Profile) ([][]float64, int, int, error) {
	if up <= 0 || down <= 0 {
		return nil, 0, 0, ErrInvalidRatio
	}

	delay := (p.TapsPerPhase*up + 2*down - 1) / (2 * down)
	nTaps := 2*down*delay + 1

	fc := (0.5 / float64(max(up, down))) * p.CutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, 0, 0, fmt.Errorf("%w: cutoff %.6f", ErrInvalidRatio, fc)
	}

	taps := make([]float64, nTaps)

	center := 0.5 * float64(nTaps-1)
	for n := range nTaps {
		t := float64(n) - center
		taps[n] = 2 * fc * sinc(2*fc*t) * kaiserWindow(n, nTaps, p.KaiserBeta)
	}

	var sum float64
	for _, v := range taps {
		sum += v
	}

	if sum == 0 {
		return nil, 0, 0, fmt.Errorf("%w: zero-sum filter", ErrInvalidRatio)
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}

	phases := make([][]float64, up)
	maxPhaseLn := 0

	for branch := range up {
		phase := make([]float64, 0, (nTaps-branch+up-1)/up)
		for i := branch; i < nTaps; i += up {
			phase = append(phase, taps[i])
		}

		if len(phase) > maxPhaseLn {
			maxPhaseLn = len(phase)
		}

		phases[branch] = phase
	}

	return phases, delay, maxPhaseLn, nil
}

// rateRatio returns outRate/inRate as a reduced fraction. Whole-number
// rates reduce exactly; anything else goes through approximateRatio.
func rateRatio(inRate, outRate float64, maxDen int) (up, down int) {
	if inRate == math.Trunc(inRate) && outRate == math.Trunc(outRate) && inRate < 1<<31 && outRate < 1<<31 {
		up, down = int(outRate), int(inRate)
		g := gcd(up, down)

		return up / g, down / g
	}

	return approximateRatio(outRate/inRate, maxDen)
}

// approximateRatio returns the last continued-fraction convergent of v
// whose denominator does not exceed maxDen (4096 when unset).
func approximateRatio(v float64, maxDen int) (num, den int) {
	if maxDen <= 0 {
		maxDen = 4096
	}

	if !(v > 0) || math.IsInf(v, 0) {
		return 1, 1
	}

	// h/k are successive convergents, seeded with 1/0 and 0/1.
	hPrev, h := 1, int(v)
	kPrev, k := 0, 1
	rem := v - math.Floor(v)

	for rem > 1e-12 {
		x := 1 / rem
		a := int(x)
		rem = x - float64(a)

		kNext := a*k + kPrev
		if kNext > maxDen {
			break
		}

		hPrev, h = h, a*h+hPrev
		kPrev, k = k, kNext
	}

	if h <= 0 {
		return 1, 1
	}

	g := gcd(h, k)

	return h / g, k / g
}

func gcd(a, b int) int {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}

	return max(a, 1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

// sinc is the normalised sinc, sin(pi x)/(pi x).
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}

	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// kaiserWindow evaluates tap i of an n-tap Kaiser window.
func kaiserWindow(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	r := 2*float64(i)/float64(n-1) - 1

	return besselI0(beta*math.Sqrt(max(0, 1-r*r))) / besselI0(beta)
}

// besselI0 sums the series of the modified Bessel function I0 until the
// terms stop contributing.
func besselI0(x float64) float64 {
	q := x * x / 4
	sum, term := 1.0, 1.0

	for k := 1.0; term > sum*1e-17; k++ {
		term *= q / (k * k)
		sum += term
	}

	return sum
}
