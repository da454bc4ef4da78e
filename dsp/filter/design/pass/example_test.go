package pass_test

import (
	"fmt"

	"github.com/cwbudde/algo-audioscope/dsp/filter/biquad"
	"github.com/cwbudde/algo-audioscope/dsp/filter/design/pass"
)

func ExampleButterworthLP() {
	sections := pass.ButterworthLP(500, 4, 16000)
	chain := biquad.NewChain(sections)

	fmt.Printf("sections=%d order=%d\n", len(sections), chain.Order())
	fmt.Printf("cutoff=%.2f dB\n", chain.MagnitudeDB(500, 16000))

	// Output:
	// sections=2 order=4
	// cutoff=-3.01 dB
}
