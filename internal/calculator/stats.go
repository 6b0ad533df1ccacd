package calculator

import "math"

// PopulationStdDev returns the mean and population standard deviation of values.
func PopulationStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

// ZScore returns how many population standard deviations x sits from the
// mean of values. It returns 0 with fewer than 2 values or zero spread.
func ZScore(x float64, values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, sd := PopulationStdDev(values)
	if sd == 0 || math.IsNaN(sd) {
		return 0
	}
	return (x - mean) / sd
}
