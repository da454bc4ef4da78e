// Package signal synthesises deterministic test signals: sines, tone
// mixtures and seeded noise, plus small level utilities.
package signal
