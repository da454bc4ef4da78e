// Package codec turns uploaded audio bytes into mono sample buffers and
// sample buffers back into WAV files.
//
// Decoding sniffs the container from its leading bytes. RIFF/WAVE goes
// through go-audio/wav, fLaC through mewkiz/flac and MPEG audio (with or
// without an ID3v2 tag) through go-mp3. Every channel is averaged into
// one, integer PCM is scaled to [-1, 1] and the result is resampled to
// the target rate, 16 kHz unless [WithTargetRate] says otherwise.
package codec
