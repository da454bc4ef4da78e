// Package pass designs Butterworth low-pass and high-pass filters as
// cascades of biquad sections.
//
// Each full section is a second-order stage whose quality factor
// places its poles on the Butterworth circle; odd orders append one
// first-order section. The bilinear transform is pre-warped at the cutoff,
// so the cascade has exactly the response of the expanded transfer function
// produced by dsp/filter/iir.Design while staying numerically robust at high
// orders.
//
// Designers return nil for invalid parameters (order < 1, cutoff outside
// (0, sampleRate/2)); callers that need an error validate first.
package pass
