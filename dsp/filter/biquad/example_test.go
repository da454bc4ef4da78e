package biquad_test

import (
	"fmt"

	"github.com/cwbudde/algo-audioscope/dsp/filter/biquad"
)

func ExampleSection_ProcessSample() {
	s := biquad.NewSection(biquad.Coefficients{B0: 0.5, B1: 0.5})

	for _, x := range []float64{1, 0, 0} {
		fmt.Printf("%.2f ", s.ProcessSample(x))
	}
	fmt.Println()

	// Output:
	// 0.50 0.50 0.00
}

func ExampleChain_ProcessBlock() {
	c := biquad.NewChain([]biquad.Coefficients{
		{B0: 0.5, B1: 0.5},
		{B0: 0.5, B1: 0.5},
	})

	buf := []float64{1, 0, 0, 0}
	c.ProcessBlock(buf)
	fmt.Println(buf)

	// Output:
	// [0.25 0.5 0.25 0]
}
