package iir

import "errors"

var (
	// ErrInvalidSpec indicates filter parameters that cannot be designed:
	// cutoff outside (0, Nyquist), non-positive order or sample rate, or an
	// unknown filter kind.
	ErrInvalidSpec = errors.New("iir: invalid filter spec")
	// ErrDegenerateFilter indicates malformed coefficients, such as an empty
	// polynomial, a zero leading feedback coefficient, or non-finite values.
	ErrDegenerateFilter = errors.New("iir: degenerate filter coefficients")
)
