package core

// DefaultSampleRate is the rate decoded clips are normalised to before
// filtering and plotting.
const DefaultSampleRate = 16000

// ProcessorConfig carries the settings shared by signal sources and
// processors: currently just the sample rate in Hz.
type ProcessorConfig struct {
	SampleRate int
}

// Nyquist returns half the sample rate.
func (c ProcessorConfig) Nyquist() float64 {
	return float64(c.SampleRate) / 2
}

// Period returns the duration of one sample in seconds.
func (c ProcessorConfig) Period() float64 {
	return 1 / float64(c.SampleRate)
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// WithSampleRate sets the sample rate. Non-positive values keep the
// current rate.
func WithSampleRate(sampleRate int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// DefaultProcessorConfig returns a config at DefaultSampleRate.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: DefaultSampleRate}
}

// ApplyProcessorOptions folds opts over DefaultProcessorConfig, skipping
// nil entries.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(&cfg)
	}

	return cfg
}
