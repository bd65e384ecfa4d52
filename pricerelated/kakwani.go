package pricerelated

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
)

// KI returns the Kakwani index: Gini(assessed) - Gini(sale), with both value
// sequences ordered by ascending sale price. Negative values indicate
// regressivity.
func KI(s *sample.Sample) (float64, error) {
	ga, gs, err := ginis("pricerelated.KI", s)
	if err != nil {
		return 0, err
	}
	return ga - gs, nil
}

// MKI returns the modified Kakwani index: Gini(assessed) / Gini(sale).
// Values below 1 indicate regressivity.
func MKI(s *sample.Sample) (float64, error) {
	ga, gs, err := ginis("pricerelated.MKI", s)
	if err != nil {
		return 0, err
	}
	if gs == 0 {
		return 0, studyerr.Degenerate("pricerelated.MKI", "sale price Gini coefficient is zero")
	}
	return ga / gs, nil
}

func ginis(op string, s *sample.Sample) (assessedGini, saleGini float64, err error) {
	if s == nil {
		return 0, 0, studyerr.Invalid(op, "sample is nil")
	}
	if s.Len() < 2 {
		return 0, 0, studyerr.Insufficient(op, "sample has %d observations, at least 2 are required", s.Len())
	}

	obs := s.Observations()
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].SalePrice < obs[j].SalePrice })

	assessed := make([]float64, len(obs))
	sale := make([]float64, len(obs))
	for i, o := range obs {
		assessed[i] = o.Assessed
		sale[i] = o.SalePrice
	}
	return gini(assessed), gini(sale), nil
}

// gini computes the Gini coefficient of x in its given order:
// (2 * sum((i+1) * x_i) / sum(x) - (n+1)) / n.
func gini(x []float64) float64 {
	n := float64(len(x))
	rank := make([]float64, len(x))
	floats.Span(rank, 1, n)
	g := 2*floats.Dot(rank, x)/floats.Sum(x) - (n + 1)
	return g / n
}
