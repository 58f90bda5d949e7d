package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrShortSeries = errors.New("analysis: series too short")

// FFT transforms a real series of any length.
func FFT(data []float64) []complex128 {
	return fft.FFTReal(data)
}

func PowerSpectrum(data []float64) []float64 {
	bins := FFT(data)
	ps := make([]float64, len(bins)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-zero frequency of series in
// cycles per sample. The mean is removed first.
func DominantFrequency(series []float64) (float64, error) {
	n := len(series)
	if n < 8 {
		return 0, ErrShortSeries
	}

	data := make([]float64, n)
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)
	for i, v := range series {
		data[i] = v - mean
	}

	ps := PowerSpectrum(data)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	return float64(best) / float64(n), nil
}

// BobSpeed converts a frequency in cycles per frame back into the angular
// speed of a bubble whose clock advances timeStep per frame.
func BobSpeed(freq, timeStep float64) float64 {
	if timeStep == 0 {
		return 0
	}
	return 2 * math.Pi * freq / timeStep
}
