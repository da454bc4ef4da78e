// Package window generates the tapering windows used ahead of FFT analysis.
package window
