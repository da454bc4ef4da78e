// Package resample provides rational sample-rate conversion using polyphase FIR
// filtering with anti-aliasing defaults.
//
// Quality modes:
//
//	mode            taps/phase
//	QualityFast     16
//	QualityBalanced 32
//	QualityBest     64
//
// [Resampler] streams blocks and keeps the filter's group delay in its
// output. [ConvertRate] and [ConvertBuffer] convert whole clips with the
// delay removed, which is what decoders normalising to a fixed rate want.
package resample
