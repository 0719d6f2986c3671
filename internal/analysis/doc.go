// Package analysis characterises recorded ring motion.
//
//   - [PowerSpectrum] and [DominantFrequency]: temporal spectrum of one
//     point's radial effect
//   - [ModeSpectrum]: angular modes excited around the ring at one frame
//   - [NewPhasePortrait]: (radialEffect, speed) trajectory of one point
//   - [ZeroCrossings]: upward crossings of zero, for a period estimate
//
// Spectra are computed with go-dsp after zero padding to a power of two:
//
//	f := analysis.DominantFrequency(analysis.Series(states, 0), 60)
package analysis
