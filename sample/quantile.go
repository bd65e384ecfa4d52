package sample

import "math"

// Quantile returns the p-quantile of sorted data using linear interpolation
// between order statistics: h = (n-1)p, x[floor(h)] + (h-floor(h))(x[floor(h)+1]-x[floor(h)]).
// This is the Hyndman-Fan type 7 estimator, the default of numpy and R.
// sorted must be ascending; p is clamped to [0, 1].
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Quartiles returns the first and third quartiles of sorted data.
func Quartiles(sorted []float64) (q1, q3 float64) {
	return Quantile(sorted, 0.25), Quantile(sorted, 0.75)
}
