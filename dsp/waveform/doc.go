// Package waveform reduces sample buffers to plot-sized series.
//
// [Decimate] keeps at most maxPoints evenly spaced samples, always
// including the first and last, and pairs each with its time stamp in
// seconds. Selection is plain index picking with no anti-alias filtering,
// which is what a waveform overview wants.
package waveform
