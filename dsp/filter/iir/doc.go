// Package iir designs and applies Butterworth low-pass and high-pass IIR
// filters.
//
// [Design] maps a [Spec] to a single rational transfer function using the
// analog-prototype / bilinear-transform method, producing [Coefficients]
// with named feedforward and feedback polynomials. [Apply] runs those
// coefficients over a buffer.SampleBuffer with the direct-form recurrence
//
//	y[n] = (sum_i b[i]*x[n-i] - sum_{j>=1} a[j]*y[n-j]) / a[0]
//
// starting from zero state. [Filter] is the streaming form of the same
// recurrence.
//
// For high orders or very low normalized cutoffs the expanded polynomial
// loses precision; [DesignSections] and [ApplySections] provide the same
// response as a cascade of biquad sections.
//
// All functions are pure and safe for concurrent use on distinct inputs.
package iir
