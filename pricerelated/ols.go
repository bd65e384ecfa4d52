package pricerelated

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// weightedLeastSquares fits y = X*beta by (weighted) least squares and
// returns the coefficients and their standard errors. w may be nil for
// ordinary least squares. Rows of x must all have the same length k and n
// must exceed k for standard errors to be defined.
func weightedLeastSquares(x [][]float64, y, w []float64) (coeffs, stdErrors []float64, ok bool) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, nil, false
	}
	k := len(x[0])
	if n <= k {
		return nil, nil, false
	}

	// Build X'WX and X'Wy
	xtwx := mat.NewDense(k, k, nil)
	xtwy := mat.NewVecDense(k, nil)
	for i := 0; i < n; i++ {
		wi := 1.0
		if w != nil {
			wi = w[i]
		}
		for j := 0; j < k; j++ {
			xtwy.SetVec(j, xtwy.AtVec(j)+wi*x[i][j]*y[i])
			for l := 0; l < k; l++ {
				xtwx.Set(j, l, xtwx.At(j, l)+wi*x[i][j]*x[i][l])
			}
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(xtwx); err != nil {
		return nil, nil, false
	}

	var beta mat.VecDense
	beta.MulVec(&inv, xtwy)
	coeffs = make([]float64, k)
	for j := range coeffs {
		coeffs[j] = beta.AtVec(j)
	}

	// Weighted residual sum of squares
	sse := 0.0
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < k; j++ {
			pred += coeffs[j] * x[i][j]
		}
		wi := 1.0
		if w != nil {
			wi = w[i]
		}
		r := y[i] - pred
		sse += wi * r * r
	}

	s2 := sse / float64(n-k)
	stdErrors = make([]float64, k)
	for j := range stdErrors {
		stdErrors[j] = math.Sqrt(s2 * inv.At(j, j))
	}
	return coeffs, stdErrors, true
}
