package biquad

// Chain runs sections in series. It is the runtime for Butterworth
// designs split into second-order sections.
type Chain struct {
	sections []Section
}

// NewChain returns a chain at rest with one section per element of
// coeffs.
func NewChain(coeffs []Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i, k := range coeffs {
		c.sections[i].Coefficients = k
	}

	return c
}

// ProcessSample passes x through every section.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// ProcessBlockTo filters src into dst, leaving src untouched unless the
// two alias.
func (c *Chain) ProcessBlockTo(dst, src []float64) {
	if len(c.sections) == 0 {
		copy(dst, src)
		return
	}

	c.sections[0].ProcessBlockTo(dst, src)

	for i := 1; i < len(c.sections); i++ {
		c.sections[i].ProcessBlock(dst[:len(src)])
	}
}

// Reset returns every section to rest.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Len returns the number of sections.
func (c *Chain) Len() int {
	return len(c.sections)
}

// Order is the sum of section orders.
func (c *Chain) Order() int {
	order := 0
	for i := range c.sections {
		if c.sections[i].FirstOrder() {
			order++
		} else {
			order += 2
		}
	}

	return order
}

// Coefficients returns a copy of the section coefficients.
func (c *Chain) Coefficients() []Coefficients {
	out := make([]Coefficients, len(c.sections))
	for i := range c.sections {
		out[i] = c.sections[i].Coefficients
	}

	return out
}
