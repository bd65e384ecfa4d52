// Package pricerelated computes vertical-equity statistics: PRD, PRB and the
// Kakwani indices.
package pricerelated

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
)

// PRD returns the price-related differential: the mean ratio divided by the
// sale-price-weighted mean ratio (equivalently sum(assessed)/sum(sale)).
// Values above 1 indicate regressivity, below 1 progressivity.
func PRD(s *sample.Sample) (float64, error) {
	if s == nil {
		return 0, studyerr.Invalid("pricerelated.PRD", "sample is nil")
	}
	ratios := s.Ratios()
	weighted := stat.Mean(ratios, s.SalePrices())
	if !(weighted > 0) {
		return 0, studyerr.Degenerate("pricerelated.PRD", "weighted mean ratio is %v", weighted)
	}
	return stat.Mean(ratios, nil) / weighted, nil
}

// MinPRBSample is the fewest observations PRB can be fit on; the slope's
// standard error needs at least one residual degree of freedom.
const MinPRBSample = 3

// PRBFit is the regression behind the price-related bias statistic.
type PRBFit struct {
	Slope     float64 `json:"slope"` // the PRB statistic
	StdErr    float64 `json:"std_err"`
	Intercept float64 `json:"intercept"`
	N         int     `json:"n"`
	DF        int     `json:"df"` // residual degrees of freedom, N-2
	Weighted  bool    `json:"weighted"`
}

// TStat returns Slope / StdErr. It is 0 when both are 0 and ±Inf when only
// the standard error is.
func (f *PRBFit) TStat() float64 {
	if f.StdErr == 0 {
		if f.Slope == 0 {
			return 0
		}
		return math.Copysign(math.Inf(1), f.Slope)
	}
	return f.Slope / f.StdErr
}

// PRB fits the price-related bias regression
//
//	(ratio - median)/median = b0 + b1 * log2(0.5 * (assessed/median + sale))
//
// and returns the fit; b1 is PRB. median is the sample's median ratio,
// supplied by the caller. weights, when non-nil, must hold one positive
// weight per observation in sample order; nil fits ordinary least squares.
//
// A PRB near 0 indicates no value-related bias. A positive slope means ratios
// rise with value (progressivity), a negative slope that they fall (regressivity).
func PRB(s *sample.Sample, median float64, weights []float64) (*PRBFit, error) {
	const op = "pricerelated.PRB"
	if s == nil {
		return nil, studyerr.Invalid(op, "sample is nil")
	}
	n := s.Len()
	if n < MinPRBSample {
		return nil, studyerr.Insufficient(op, "sample has %d observations, at least %d are required", n, MinPRBSample)
	}
	if !(median > 0) || math.IsInf(median, 0) {
		return nil, studyerr.Degenerate(op, "median ratio must be positive and finite, got %v", median)
	}
	if weights != nil {
		if len(weights) != n {
			return nil, studyerr.Invalid(op, "got %d weights for %d observations", len(weights), n)
		}
		for i, w := range weights {
			if !(w > 0) || math.IsInf(w, 0) {
				return nil, studyerr.Invalid(op, "weight at position %d must be positive and finite, got %v", i, w)
			}
		}
	}

	x := make([][]float64, n)
	y := make([]float64, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		o := s.Observation(i)
		y[i] = (s.Ratio(i) - median) / median
		values[i] = math.Log2(0.5 * (o.Assessed/median + o.SalePrice))
		x[i] = []float64{1, values[i]}
	}
	if stat.Variance(values, nil) == 0 {
		return nil, studyerr.Degenerate(op, "all observations have the same value proxy; slope is undefined")
	}

	coeffs, se, ok := weightedLeastSquares(x, y, weights)
	if !ok {
		return nil, studyerr.Degenerate(op, "regression design matrix is singular")
	}

	return &PRBFit{
		Slope:     coeffs[1],
		StdErr:    se[1],
		Intercept: coeffs[0],
		N:         n,
		DF:        n - 2,
		Weighted:  weights != nil,
	}, nil
}

// PRBSlope returns the unweighted PRB of s around its own median.
func PRBSlope(s *sample.Sample) (float64, error) {
	fit, err := fitOwnMedian(s)
	if err != nil {
		return 0, err
	}
	return fit.Slope, nil
}

// PRBStdErr returns the standard error of the unweighted PRB of s.
func PRBStdErr(s *sample.Sample) (float64, error) {
	fit, err := fitOwnMedian(s)
	if err != nil {
		return 0, err
	}
	return fit.StdErr, nil
}

func fitOwnMedian(s *sample.Sample) (*PRBFit, error) {
	if s == nil {
		return nil, studyerr.Invalid("pricerelated.PRB", "sample is nil")
	}
	return PRB(s, s.MedianRatio(), nil)
}
