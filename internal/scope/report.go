package scope

import (
	"encoding/json"
	"time"

	"github.com/cwbudde/algo-audioscope/dsp/waveform"
	"github.com/cwbudde/algo-audioscope/internal/codec"
	statfreq "github.com/cwbudde/algo-audioscope/stats/frequency"
	stattime "github.com/cwbudde/algo-audioscope/stats/time"
)

// Report is the visualisation payload of one processed clip.
type Report struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	CreatedAt  time.Time    `json:"createdAt"`
	Source     *codec.Info  `json:"source,omitempty"`
	SampleRate int          `json:"sampleRate"`
	Samples    int          `json:"samples"`
	Seconds    float64      `json:"seconds"`
	Filter     FilterReport `json:"filter"`
	Original   Track        `json:"original"`
	Filtered   Track        `json:"filtered"`
}

// FilterReport records what the filter step did.
type FilterReport struct {
	Kind        string    `json:"kind"`
	CutoffHz    float64   `json:"cutoffHz,omitempty"`
	Order       int       `json:"order,omitempty"`
	Structure   Structure `json:"structure,omitempty"`
	Applied     bool      `json:"applied"`
	Skipped     bool      `json:"skipped"`
	Reason      string    `json:"reason,omitempty"`
	Stable      bool      `json:"stable,omitempty"`
	Feedforward []float64 `json:"feedforward,omitempty"`
	Feedback    []float64 `json:"feedback,omitempty"`
}

// Track is the plot data and measurements of one signal.
type Track struct {
	Waveform waveform.Series `json:"waveform"`
	Spectrum *SpectrumCurve  `json:"spectrum,omitempty"`
	Probes   []ToneProbe     `json:"probes,omitempty"`
	Stats    stattime.Stats  `json:"stats"`
}

// SpectrumCurve is a decimated magnitude spectrum. Shape is measured on
// the full-resolution spectrum.
type SpectrumCurve struct {
	Frequencies []float64      `json:"frequencies"`
	LevelsDB    []float64      `json:"levelsDb"`
	PeakHz      float64        `json:"peakHz"`
	PeakDB      float64        `json:"peakDb"`
	FFTSize     int            `json:"fftSize"`
	Window      string         `json:"window"`
	Frames      int            `json:"frames"`
	Shape       statfreq.Stats `json:"shape"`
}

// ToneProbe is the measured amplitude of one frequency.
type ToneProbe struct {
	FreqHz    float64 `json:"freqHz"`
	Amplitude float64 `json:"amplitude"`
}

// JSON encodes r with indentation.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
