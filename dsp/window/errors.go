package window

import (
	"errors"
	"fmt"
)

// ErrInvalidInput reports an empty coefficient set, mismatched lengths
// or a non-positive window size.
var ErrInvalidInput = errors.New("window: invalid input")

var (
	errEmptyCoeffs      = fmt.Errorf("%w: no coefficients", ErrInvalidInput)
	errZeroCoherentGain = fmt.Errorf("%w: coefficients sum to zero", ErrInvalidInput)
)

func errMismatchedLength(samples, coeffs int) error {
	return fmt.Errorf("%w: %d samples, %d coefficients", ErrInvalidInput, samples, coeffs)
}

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be > 0: %d", ErrInvalidInput, size)
	}

	return nil
}
