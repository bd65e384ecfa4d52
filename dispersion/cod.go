// Package dispersion computes horizontal-equity statistics of assessment ratios.
package dispersion

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
)

// COD returns the coefficient of dispersion of the sample's ratios:
// 100 * mean(|ratio - median|) / median.
func COD(s *sample.Sample) (float64, error) {
	if s == nil {
		return 0, studyerr.Invalid("dispersion.COD", "sample is nil")
	}
	return CODAround(s.Ratios(), s.MedianRatio())
}

// CODAround computes the coefficient of dispersion of ratios around a
// median the caller has already computed.
func CODAround(ratios []float64, median float64) (float64, error) {
	if len(ratios) == 0 {
		return 0, studyerr.Invalid("dispersion.COD", "no ratios")
	}
	if !(median > 0) || math.IsInf(median, 0) {
		return 0, studyerr.Degenerate("dispersion.COD", "median ratio must be positive and finite, got %v", median)
	}
	return 100 * MeanAbsoluteDeviation(ratios, median) / median, nil
}

// MeanAbsoluteDeviation returns the mean of |x - center|.
func MeanAbsoluteDeviation(x []float64, center float64) float64 {
	dev := make([]float64, len(x))
	for i, v := range x {
		dev[i] = math.Abs(v - center)
	}
	return stat.Mean(dev, nil)
}
