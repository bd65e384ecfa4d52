// Package trim implements outlier exclusion for ratio study samples.
package trim

import (
	"fmt"
	"math"

	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
)

// Common trimming defaults.
const (
	ExtremeMultiplier   = 3.0 // IQR multiplier for extreme-outlier trimming
	ModerateMultiplier  = 1.5 // IQR multiplier for moderate trimming
	DefaultMinRemaining = 5   // fewest observations a trimmed sample may hold
)

// Policy decides which ratios are outliers.
type Policy interface {
	// Fences returns the inclusive range of ratios to keep, given ascending ratios.
	Fences(sorted []float64) (lower, upper float64)
	// FixedPoint reports whether the policy is reapplied until it excludes nothing.
	FixedPoint() bool
	// Validate checks the policy parameters.
	Validate() error
	String() string
}

// IQR keeps ratios within [Q1 - k*IQR, Q3 + k*IQR] where k is Multiplier.
//
// Removing outliers moves the quartiles, so a single pass can leave new
// ratios outside the recomputed fences. IQR therefore repeats until a pass
// excludes nothing, which makes trimming an already-trimmed sample a no-op.
type IQR struct {
	Multiplier float64
}

// Fences implements Policy.
func (p IQR) Fences(sorted []float64) (float64, float64) {
	q1, q3 := sample.Quartiles(sorted)
	iqr := q3 - q1
	return q1 - p.Multiplier*iqr, q3 + p.Multiplier*iqr
}

// FixedPoint implements Policy.
func (p IQR) FixedPoint() bool { return true }

// Validate implements Policy.
func (p IQR) Validate() error {
	if !(p.Multiplier > 0) || math.IsInf(p.Multiplier, 0) {
		return studyerr.Config("trim.IQR", "multiplier must be a positive finite number, got %v", p.Multiplier)
	}
	return nil
}

func (p IQR) String() string { return fmt.Sprintf("iqr(%g)", p.Multiplier) }

// Percentile keeps ratios between the Lower and Upper quantiles.
// It is a single pass: trimming again always cuts deeper.
type Percentile struct {
	Lower float64
	Upper float64
}

// DefaultPercentile trims the bottom and top 5% of ratios.
func DefaultPercentile() Percentile {
	return Percentile{Lower: 0.05, Upper: 0.95}
}

// Fences implements Policy.
func (p Percentile) Fences(sorted []float64) (float64, float64) {
	return sample.Quantile(sorted, p.Lower), sample.Quantile(sorted, p.Upper)
}

// FixedPoint implements Policy.
func (p Percentile) FixedPoint() bool { return false }

// Validate implements Policy.
func (p Percentile) Validate() error {
	if !(p.Lower >= 0 && p.Lower < p.Upper && p.Upper <= 1) {
		return studyerr.Config("trim.Percentile", "bounds must satisfy 0 <= lower < upper <= 1, got [%v, %v]", p.Lower, p.Upper)
	}
	return nil
}

func (p Percentile) String() string { return fmt.Sprintf("percentile(%g,%g)", p.Lower, p.Upper) }

// Result is the outcome of trimming a sample.
type Result struct {
	Sample       *sample.Sample // trimmed sample, rows traceable to the input
	Excluded     int            // input size minus trimmed size
	ExcludedRows []int          // original rows that were removed
	Kept         []int          // positions in the input sample of the kept observations
	Lower        float64        // fences of the final pass
	Upper        float64
	Passes       int
}

// Trim removes outlier ratios from s according to p. The input is not
// modified. minRemaining <= 0 selects DefaultMinRemaining.
func Trim(s *sample.Sample, p Policy, minRemaining int) (*Result, error) {
	if s == nil {
		return nil, studyerr.Invalid("trim.Trim", "sample is nil")
	}
	if p == nil {
		return nil, studyerr.Config("trim.Trim", "policy is nil")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if minRemaining <= 0 {
		minRemaining = DefaultMinRemaining
	}
	if s.Len() < minRemaining {
		return nil, studyerr.Insufficient("trim.Trim",
			"sample has %d observations, at least %d are required", s.Len(), minRemaining)
	}

	current := s
	kept := make([]int, s.Len())
	for i := range kept {
		kept[i] = i
	}
	res := &Result{}
	for {
		lower, upper := p.Fences(current.SortedRatios())
		res.Lower, res.Upper = lower, upper
		res.Passes++

		keep := make([]int, 0, current.Len())
		for i := 0; i < current.Len(); i++ {
			r := current.Ratio(i)
			if r < lower || r > upper {
				res.ExcludedRows = append(res.ExcludedRows, current.Row(i))
				continue
			}
			keep = append(keep, i)
		}

		if len(keep) < minRemaining {
			return nil, studyerr.Insufficient("trim.Trim",
				"%d observations remain after trimming with %s, at least %d are required", len(keep), p, minRemaining)
		}
		if len(keep) == current.Len() {
			break
		}

		next, err := current.Subset(keep)
		if err != nil {
			return nil, studyerr.Wrap(err, "trim.Trim")
		}
		current = next
		for i, pos := range keep {
			kept[i] = kept[pos]
		}
		kept = kept[:len(keep)]
		if !p.FixedPoint() {
			break
		}
	}

	res.Sample = current
	res.Kept = kept
	res.Excluded = s.Len() - current.Len()
	return res, nil
}

// Flags reports, for each observation of s in order, whether its ratio lies
// outside a single pass of p's fences. Nothing is removed.
func Flags(s *sample.Sample, p Policy) ([]bool, error) {
	if s == nil {
		return nil, studyerr.Invalid("trim.Flags", "sample is nil")
	}
	if p == nil {
		return nil, studyerr.Config("trim.Flags", "policy is nil")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	lower, upper := p.Fences(s.SortedRatios())
	flags := make([]bool, s.Len())
	for i := range flags {
		r := s.Ratio(i)
		flags[i] = r < lower || r > upper
	}
	return flags, nil
}
