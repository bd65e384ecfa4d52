// Package sample provides the paired assessment/sale observation container.
package sample

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/goratio/studyerr"
)

// Observation is one assessed value paired with its sale price.
type Observation struct {
	Assessed  float64 `json:"assessed_value"`
	SalePrice float64 `json:"sale_price"`
}

// Ratio returns Assessed / SalePrice.
func (o Observation) Ratio() float64 {
	return o.Assessed / o.SalePrice
}

// Sample is an immutable, validated sequence of observations and their ratios.
// Each position remembers the row of the original input it came from, so
// subsets built by trimming or resampling can be traced back to that row.
type Sample struct {
	obs    []Observation
	ratios []float64
	rows   []int
}

// New creates a Sample from parallel slices of assessed values and sale prices.
// The slices are copied.
func New(assessed, salePrices []float64) (*Sample, error) {
	if len(assessed) != len(salePrices) {
		return nil, studyerr.Invalid("sample.New",
			"assessed values and sale prices must have the same length (%d vs %d)", len(assessed), len(salePrices))
	}
	obs := make([]Observation, len(assessed))
	for i := range assessed {
		obs[i] = Observation{Assessed: assessed[i], SalePrice: salePrices[i]}
	}
	return build("sample.New", obs)
}

// FromObservations creates a Sample from observations. The slice is copied.
func FromObservations(obs []Observation) (*Sample, error) {
	cp := make([]Observation, len(obs))
	copy(cp, obs)
	return build("sample.FromObservations", cp)
}

func build(op string, obs []Observation) (*Sample, error) {
	if len(obs) == 0 {
		return nil, studyerr.Invalid(op, "sample is empty")
	}
	ratios := make([]float64, len(obs))
	rows := make([]int, len(obs))
	for i, o := range obs {
		if err := validValue(o.Assessed); err != "" {
			return nil, studyerr.Invalid(op, "assessed value at row %d %s (got %v)", i, err, o.Assessed)
		}
		if err := validValue(o.SalePrice); err != "" {
			return nil, studyerr.Invalid(op, "sale price at row %d %s (got %v)", i, err, o.SalePrice)
		}
		ratios[i] = o.Ratio()
		rows[i] = i
	}
	return &Sample{obs: obs, ratios: ratios, rows: rows}, nil
}

func validValue(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "must be finite"
	case v <= 0:
		return "must be greater than 0"
	}
	return ""
}

// Len returns the number of observations.
func (s *Sample) Len() int {
	return len(s.obs)
}

// Observation returns the observation at position i.
func (s *Sample) Observation(i int) Observation {
	return s.obs[i]
}

// Ratio returns the ratio at position i.
func (s *Sample) Ratio(i int) float64 {
	return s.ratios[i]
}

// Row returns the original input row of position i.
func (s *Sample) Row(i int) int {
	return s.rows[i]
}

// Ratios returns a copy of the ratio sequence.
func (s *Sample) Ratios() []float64 {
	out := make([]float64, len(s.ratios))
	copy(out, s.ratios)
	return out
}

// SortedRatios returns the ratios in ascending order.
func (s *Sample) SortedRatios() []float64 {
	out := s.Ratios()
	sort.Float64s(out)
	return out
}

// Rows returns a copy of the original row indices.
func (s *Sample) Rows() []int {
	out := make([]int, len(s.rows))
	copy(out, s.rows)
	return out
}

// Assessed returns a copy of the assessed values.
func (s *Sample) Assessed() []float64 {
	out := make([]float64, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Assessed
	}
	return out
}

// SalePrices returns a copy of the sale prices.
func (s *Sample) SalePrices() []float64 {
	out := make([]float64, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.SalePrice
	}
	return out
}

// Observations returns a copy of the observations.
func (s *Sample) Observations() []Observation {
	out := make([]Observation, len(s.obs))
	copy(out, s.obs)
	return out
}

// Subset returns a new Sample holding the observations at the given positions,
// in the given order. Positions may repeat, which is how bootstrap resamples
// are drawn. Original row identity is carried over.
func (s *Sample) Subset(positions []int) (*Sample, error) {
	if len(positions) == 0 {
		return nil, studyerr.Insufficient("sample.Subset", "subset is empty")
	}
	obs := make([]Observation, len(positions))
	ratios := make([]float64, len(positions))
	rows := make([]int, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(s.obs) {
			return nil, studyerr.Invalid("sample.Subset", "position %d out of range [0, %d)", p, len(s.obs))
		}
		obs[i] = s.obs[p]
		ratios[i] = s.ratios[p]
		rows[i] = s.rows[p]
	}
	return &Sample{obs: obs, ratios: ratios, rows: rows}, nil
}

// MedianRatio returns the median of the ratios.
func (s *Sample) MedianRatio() float64 {
	m, err := stats.Median(s.ratios)
	if err != nil {
		return math.NaN()
	}
	return m
}

// MeanRatio returns the arithmetic mean of the ratios.
func (s *Sample) MeanRatio() float64 {
	return stat.Mean(s.ratios, nil)
}
