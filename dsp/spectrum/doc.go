// Package spectrum measures the frequency content of sample blocks.
//
// [Analyze] computes a windowed, Welch-averaged magnitude spectrum using an
// FFT plan from algo-fft. [Goertzel] and [ToneAmplitude] evaluate single
// frequencies, which is cheaper than a full transform when only a few probe
// tones matter.
package spectrum
