package omath

import "math"

// Mean ...
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}

// StandardDeviation returns the population standard deviation of the samples passed.
func StandardDeviation(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	mean := Mean(samples)

	var variance float64
	for _, v := range samples {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(samples)))
}
