// Package confidence computes confidence intervals around ratio study statistics.
package confidence

import (
	"errors"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
)

// Defaults for interval estimation.
const (
	DefaultLevel      = 0.95
	DefaultIterations = 1000
)

// Statistic computes a scalar from a sample, e.g. dispersion.COD.
type Statistic func(*sample.Sample) (float64, error)

// Interval is a two-sided confidence interval.
type Interval struct {
	Estimate float64 `json:"estimate"`
	Lower    float64 `json:"lower_bound"`
	Upper    float64 `json:"upper_bound"`
	Level    float64 `json:"confidence_level"`
	Method   string  `json:"method"`
}

// Contains reports whether v lies within the interval.
func (iv Interval) Contains(v float64) bool {
	return iv.Lower <= v && v <= iv.Upper
}

// Width returns Upper - Lower.
func (iv Interval) Width() float64 {
	return iv.Upper - iv.Lower
}

// Estimator produces a confidence interval for a statistic on a sample.
type Estimator interface {
	Interval(s *sample.Sample, stat Statistic, level float64) (Interval, error)
}

// ValidateLevel checks that level lies strictly between 0 and 1.
func ValidateLevel(level float64) error {
	if !(level > 0 && level < 1) {
		return studyerr.Config("confidence", "confidence level must be in (0, 1), got %v", level)
	}
	return nil
}

// Analytic builds estimate ± q * SE, where SE comes from StdErr and q is the
// standard normal quantile, or Student's t with DF degrees of freedom when DF > 0.
type Analytic struct {
	StdErr Statistic
	DF     float64
}

// Interval implements Estimator.
func (a Analytic) Interval(s *sample.Sample, stat Statistic, level float64) (Interval, error) {
	if err := ValidateLevel(level); err != nil {
		return Interval{}, err
	}
	if a.StdErr == nil || stat == nil {
		return Interval{}, studyerr.Config("confidence.Analytic", "statistic and standard error functions are required")
	}
	if a.DF < 0 {
		return Interval{}, studyerr.Config("confidence.Analytic", "degrees of freedom must not be negative, got %v", a.DF)
	}
	if s == nil {
		return Interval{}, studyerr.Invalid("confidence.Analytic", "sample is nil")
	}

	est, err := stat(s)
	if err != nil {
		return Interval{}, err
	}
	se, err := a.StdErr(s)
	if err != nil {
		return Interval{}, err
	}
	if math.IsNaN(se) || se < 0 {
		return Interval{}, studyerr.Degenerate("confidence.Analytic", "standard error is %v", se)
	}

	q := a.quantile(0.5 + level/2)
	return Interval{
		Estimate: est,
		Lower:    est - q*se,
		Upper:    est + q*se,
		Level:    level,
		Method:   a.method(),
	}, nil
}

func (a Analytic) quantile(p float64) float64 {
	if a.DF > 0 {
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: a.DF}.Quantile(p)
	}
	return distuv.UnitNormal.Quantile(p)
}

func (a Analytic) method() string {
	if a.DF > 0 {
		return "analytic-t"
	}
	return "analytic-normal"
}

// Bootstrap estimates a percentile interval by recomputing the statistic on
// Iterations resamples drawn with replacement. Each call seeds its own
// generator from Seed, so identical inputs give bit-identical bounds and
// concurrent calls never share random state.
type Bootstrap struct {
	Iterations int
	Seed       uint64
}

// Interval implements Estimator. The returned bounds always enclose the
// point estimate.
func (b Bootstrap) Interval(s *sample.Sample, stat Statistic, level float64) (Interval, error) {
	if err := ValidateLevel(level); err != nil {
		return Interval{}, err
	}
	if b.Iterations < 1 {
		return Interval{}, studyerr.Config("confidence.Bootstrap", "iterations must be at least 1, got %d", b.Iterations)
	}
	if stat == nil {
		return Interval{}, studyerr.Config("confidence.Bootstrap", "statistic function is required")
	}
	if s == nil {
		return Interval{}, studyerr.Invalid("confidence.Bootstrap", "sample is nil")
	}

	est, err := stat(s)
	if err != nil {
		return Interval{}, err
	}

	dist, err := b.Distribution(s, stat)
	if err != nil {
		return Interval{}, err
	}
	sort.Float64s(dist)

	alpha := 1 - level
	lower := sample.Quantile(dist, alpha/2)
	upper := sample.Quantile(dist, 1-alpha/2)

	return Interval{
		Estimate: est,
		Lower:    math.Min(lower, est),
		Upper:    math.Max(upper, est),
		Level:    level,
		Method:   "bootstrap-percentile",
	}, nil
}

// Distribution returns the statistic computed on each resample, in draw
// order. Resamples on which the statistic is degenerate (for example MKI on
// a resample whose sale prices are all equal) are dropped; the call fails
// only when every resample is degenerate.
func (b Bootstrap) Distribution(s *sample.Sample, stat Statistic) ([]float64, error) {
	if b.Iterations < 1 {
		return nil, studyerr.Config("confidence.Bootstrap", "iterations must be at least 1, got %d", b.Iterations)
	}
	if s == nil || stat == nil {
		return nil, studyerr.Invalid("confidence.Bootstrap", "sample and statistic are required")
	}
	rng := rand.New(rand.NewPCG(b.Seed, b.Seed^0xda3e39cb94b95bdb))

	n := s.Len()
	positions := make([]int, n)
	dist := make([]float64, 0, b.Iterations)
	var lastErr error
	for it := 0; it < b.Iterations; it++ {
		for i := range positions {
			positions[i] = rng.IntN(n)
		}
		resample, err := s.Subset(positions)
		if err != nil {
			return nil, studyerr.Wrap(err, "confidence.Bootstrap")
		}
		v, err := stat(resample)
		if errors.Is(err, studyerr.ErrDegenerateSample) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, studyerr.Wrap(err, "confidence.Bootstrap")
		}
		dist = append(dist, v)
	}
	if len(dist) == 0 {
		return nil, studyerr.Wrap(lastErr, "confidence.Bootstrap")
	}
	return dist, nil
}
