// Package scope runs the audioscope pipeline: decode an uploaded clip,
// design and apply the requested Butterworth filter, decimate both the
// original and filtered waveforms for plotting, and produce the filtered
// WAV plus a JSON report.
//
// A [Processor] handles one request at a time with [Processor.Process]
// or many with [Processor.ProcessBatch], which fans requests out over a
// bounded worker pool and keeps results in request order.
package scope
