// Package biquad provides second-order IIR section runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Sections are cascaded with
// [Chain] to run higher-order Butterworth designs as second-order sections,
// which stays well conditioned where the expanded single polynomial of
// dsp/filter/iir loses precision.
//
// Coefficient design lives in dsp/filter/design/pass.
package biquad
