package classifier

import (
	"github.com/montanaflynn/stats"
	"github.com/rotblauer/mobility/common"
	"github.com/rotblauer/mobility/types/classification"
	"github.com/rotblauer/mobility/types/sensor"
	"math"
)

// Magnitude converts a sample to gravity units and returns the norm of the triaxial vector.
// NaN axes propagate.
func Magnitude(s sensor.Sample) float64 {
	x := s.X / common.StandardGravity
	y := s.Y / common.StandardGravity
	z := s.Z / common.StandardGravity
	total := 0.0
	total += x * x
	total += y * y
	total += z * z
	return math.Sqrt(total)
}

// Magnitudes maps Magnitude over the window, keeping sample order.
func Magnitudes(samples []sensor.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = Magnitude(s)
	}
	return out
}

// Goertzel returns the energy of magnitudes at integer frequency freq.
// The window length doubles as the sample rate, so bin resolution
// is tied to the window size rather than to its real duration.
func Goertzel(magnitudes []float64, freq int) float64 {
	sr := float64(len(magnitudes))
	coeff := 2 * math.Cos((2*math.Pi*float64(freq))/sr)
	var sPrev, sPrev2 float64
	for _, sample := range magnitudes {
		s := sample + coeff*sPrev - sPrev2
		sPrev2 = sPrev
		sPrev = s
	}
	return sPrev2*sPrev2 + sPrev*sPrev - coeff*sPrev2*sPrev
}

// Spectrum returns the Goertzel energies for frequencies 1 through 10.
// Index i holds frequency i+1.
func Spectrum(magnitudes []float64) []float64 {
	out := make([]float64, classification.SpectrumBins)
	for i := range out {
		out[i] = Goertzel(magnitudes, i+1)
	}
	return out
}

// MeanVariance returns the arithmetic mean and the population variance (divisor N).
// Both are NaN for an empty window.
func MeanVariance(magnitudes []float64) (mean, variance float64) {
	data := stats.Float64Data(magnitudes)
	mean, err := stats.Mean(data)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	variance, err = stats.PopulationVariance(data)
	if err != nil {
		return mean, math.NaN()
	}
	return mean, variance
}
