package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/springsim/internal/spring"
)

// FFT transforms data zero padded to the next power of two, so bin i is
// i*sampleRate/len(result).
func FFT(data []float64) []complex128 {
	padded := make([]float64, nextPow2(len(data)))
	copy(padded, data)
	return fft.FFTReal(padded)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func PowerSpectrum(data []float64) []float64 {
	f := FFT(data)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz of samples
// taken sampleRate times per second, after removing their mean. It is 0 for
// fewer than four samples.
func DominantFrequency(samples []float64, sampleRate float64) float64 {
	if len(samples) < 4 || sampleRate <= 0 {
		return 0
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))
	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) * sampleRate / float64(nextPow2(len(samples)))
}

// DampedFrequency is the ringing frequency in Hz of an underdamped spring,
// sqrt(tension - friction²/4) / 2π, or 0 if it does not ring.
func DampedFrequency(c spring.Config) float64 {
	w2 := c.Tension - c.Friction*c.Friction/4
	if w2 <= 0 {
		return 0
	}
	return math.Sqrt(w2) / (2 * math.Pi)
}
