package forecast

import "math"

func MSE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return math.NaN()
	}
	var sum float64
	for i := range actual {
		d := actual[i] - predicted[i]
		sum += d * d
	}
	return sum / float64(len(actual))
}

func RMSE(actual, predicted []float64) float64 {
	return math.Sqrt(MSE(actual, predicted))
}

// R2 is the coefficient of determination: 1 minus the ratio of residual to
// total sum of squares.
func R2(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return math.NaN()
	}
	var mean float64
	for _, a := range actual {
		mean += a
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i := range actual {
		d := actual[i] - predicted[i]
		ssRes += d * d
		t := actual[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		return math.NaN()
	}
	return 1 - ssRes/ssTot
}
