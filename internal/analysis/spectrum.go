package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// Series extracts the radial effect of point i from every state.
func Series(states []dynamo.State, i int) []float64 {
	out := make([]float64, 0, len(states))
	for _, x := range states {
		if i < 0 || i >= x.Points() {
			continue
		}
		out = append(out, x[i])
	}
	return out
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns |X[k]| for the non-negative frequency bins of data
// after removing its mean and zero padding to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, nextPow2(len(data)))
	for i, v := range data {
		padded[i] = v - mean
	}
	spec := fft.FFTReal(padded)

	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency of data in Hz
// for a sampling rate of fps frames per second. Silent input yields 0.
func DominantFrequency(data []float64, fps float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}
	best, bestVal := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestVal {
			best, bestVal = k, ps[k]
		}
	}
	if best == 0 {
		return 0
	}
	return float64(best) * fps / float64(2*len(ps))
}

// ModeSpectrum returns the amplitude of each angular mode m = 0..n/2 in
// the radial effects of x.
func ModeSpectrum(x dynamo.State) []float64 {
	r := x.Effects()
	n := len(r)
	if n == 0 {
		return nil
	}
	spec := fft.FFTReal(append([]float64(nil), r...))
	out := make([]float64, n/2+1)
	for m := range out {
		out[m] = cmplx.Abs(spec[m]) / float64(n)
	}
	return out
}

// DominantMode returns the non-uniform angular mode with the largest
// amplitude. The breathing mode 0 is only returned for a ring at rest.
func DominantMode(x dynamo.State) int {
	modes := ModeSpectrum(x)
	best, bestVal := 0, 0.0
	for m := 1; m < len(modes); m++ {
		if modes[m] > bestVal {
			best, bestVal = m, modes[m]
		}
	}
	return best
}
