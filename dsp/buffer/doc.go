// Package buffer provides SampleBuffer, the immutable mono PCM value passed
// between decoding, filtering, and waveform decimation.
//
// A SampleBuffer always holds at least one finite sample and a positive
// sample rate. Constructors copy their input, and accessors never expose the
// backing slice, so a buffer can be shared between goroutines without
// locking.
package buffer
