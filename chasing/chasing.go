package chasing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
)

// Method names a detection test.
type Method string

const (
	// Distribution compares the share of ratios inside the band with the
	// share a normal distribution of the same mean and deviation would put there.
	Distribution Method = "distribution"
	// CDF looks for a jump in the empirical CDF of ratios inside the band.
	CDF Method = "cdf"
	// Rounding counts assessed values that equal the rounded sale price.
	Rounding Method = "rounding"
)

// Rule combines per-test flags into the sample verdict.
type Rule string

const (
	RequireAny Rule = "any" // flagged when any test flags
	RequireAll Rule = "all" // flagged only when every test flags
)

// MinSample is the fewest observations the detector accepts.
const MinSample = 2

// Config holds detector thresholds. The defaults are calibration starting
// points, not universal constants; tune them against labelled samples.
type Config struct {
	Lower            float64  `yaml:"lower" json:"lower"`                           // band lower bound (default 0.98)
	Upper            float64  `yaml:"upper" json:"upper"`                           // band upper bound (default 1.02)
	BandAroundMedian bool     `yaml:"band_around_median" json:"band_around_median"` // scale Lower/Upper by the median ratio
	Gap              float64  `yaml:"gap" json:"gap"`                               // distribution excess / CDF jump threshold (default 0.03)
	MinZ             float64  `yaml:"min_z" json:"min_z"`                           // standardized distribution excess required to flag (default 3)
	RoundingUnit     float64  `yaml:"rounding_unit" json:"rounding_unit"`           // default 1000
	RoundingShare    float64  `yaml:"rounding_share" json:"rounding_share"`         // default 0.05
	Methods          []Method `yaml:"methods" json:"methods"`
	Rule             Rule     `yaml:"rule" json:"rule"`
	SmallSample      int      `yaml:"small_sample" json:"small_sample"` // below this size results are marked unreliable (default 30)
}

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		Lower:         0.98,
		Upper:         1.02,
		Gap:           0.03,
		MinZ:          3,
		RoundingUnit:  1000,
		RoundingShare: 0.05,
		Methods:       []Method{Distribution, CDF, Rounding},
		Rule:          RequireAny,
		SmallSample:   30,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	const op = "chasing.Config"
	switch {
	case !(c.Lower > 0) || !(c.Upper > c.Lower) || math.IsInf(c.Upper, 0):
		return studyerr.Config(op, "band must satisfy 0 < lower < upper, got [%v, %v]", c.Lower, c.Upper)
	case !(c.Gap > 0 && c.Gap < 1):
		return studyerr.Config(op, "gap must be in (0, 1), got %v", c.Gap)
	case !(c.MinZ >= 0) || math.IsInf(c.MinZ, 0):
		return studyerr.Config(op, "min z must be a non-negative finite number, got %v", c.MinZ)
	case !(c.RoundingUnit > 0) || math.IsInf(c.RoundingUnit, 0):
		return studyerr.Config(op, "rounding unit must be positive, got %v", c.RoundingUnit)
	case !(c.RoundingShare > 0 && c.RoundingShare < 1):
		return studyerr.Config(op, "rounding share must be in (0, 1), got %v", c.RoundingShare)
	case len(c.Methods) == 0:
		return studyerr.Config(op, "at least one method is required")
	case c.Rule != RequireAny && c.Rule != RequireAll:
		return studyerr.Config(op, "rule must be %q or %q, got %q", RequireAny, RequireAll, c.Rule)
	case c.SmallSample < 0:
		return studyerr.Config(op, "small sample size must not be negative, got %d", c.SmallSample)
	}
	for _, m := range c.Methods {
		if _, ok := tests[m]; !ok {
			return studyerr.Config(op, "unknown method %q", m)
		}
	}
	return nil
}

// Flag is the verdict of one test.
type Flag struct {
	Method    Method  `json:"method"`
	Flagged   bool    `json:"flagged"`
	Score     float64 `json:"score"`
	Threshold float64 `json:"threshold"`
	// Z is Score in binomial standard errors. Distribution only.
	Z float64 `json:"z,omitempty"`
	// Rows lists the original rows the test measured: ratios in the band for
	// Distribution, ratios at the largest CDF jump for CDF, and copied
	// assessed values for Rounding.
	Rows []int `json:"rows"`
}

func (f Flag) String() string {
	if f.Method == Distribution {
		return fmt.Sprintf("%s: flagged=%v score=%.4f threshold=%.4f z=%.2f rows=%d", f.Method, f.Flagged, f.Score, f.Threshold, f.Z, len(f.Rows))
	}
	return fmt.Sprintf("%s: flagged=%v score=%.4f threshold=%.4f rows=%d", f.Method, f.Flagged, f.Score, f.Threshold, len(f.Rows))
}

var tests = map[Method]func(*sample.Sample, Config) Flag{
	Distribution: distribution,
	CDF:          cdfGap,
	Rounding:     rounding,
}

func prepare(op string, s *sample.Sample, cfg Config) error {
	if s == nil {
		return studyerr.Invalid(op, "sample is nil")
	}
	if s.Len() < MinSample {
		return studyerr.Insufficient(op, "sample has %d observations, at least %d are required", s.Len(), MinSample)
	}
	return cfg.Validate()
}

func (c Config) band(s *sample.Sample) (float64, float64) {
	if c.BandAroundMedian {
		m := s.MedianRatio()
		return c.Lower * m, c.Upper * m
	}
	return c.Lower, c.Upper
}

// Clustering runs the distribution test: it flags the sample when the share
// of ratios inside the band exceeds, by more than Gap, the share a normal
// distribution with the sample's mean and standard deviation would place
// there, and that excess is more than MinZ binomial standard errors
// sqrt(p(1-p)/n) of the expected share p.
func Clustering(s *sample.Sample, cfg Config) (Flag, error) {
	if err := prepare("chasing.Clustering", s, cfg); err != nil {
		return Flag{}, err
	}
	return distribution(s, cfg), nil
}

func distribution(s *sample.Sample, cfg Config) Flag {
	lo, hi := cfg.band(s)
	ratios := s.Ratios()

	var rows []int
	for i, r := range ratios {
		if r >= lo && r <= hi {
			rows = append(rows, s.Row(i))
		}
	}
	actual := float64(len(rows)) / float64(len(ratios))

	mean, variance := stat.PopMeanVariance(ratios, nil)
	var ideal float64
	if variance == 0 {
		if mean >= lo && mean <= hi {
			ideal = 1
		}
	} else {
		ref := distuv.Normal{Mu: mean, Sigma: math.Sqrt(variance)}
		ideal = ref.CDF(hi) - ref.CDF(lo)
	}

	n := float64(len(ratios))
	// p stays half an observation away from 0 and 1 so z is finite
	p := math.Min(math.Max(ideal, 0.5/n), 1-0.5/n)
	score := actual - ideal
	z := score / math.Sqrt(p*(1-p)/n)
	return Flag{
		Method:    Distribution,
		Flagged:   score > cfg.Gap && z > cfg.MinZ,
		Score:     score,
		Threshold: cfg.Gap,
		Z:         z,
		Rows:      rows,
	}
}

// CDFGap flags the sample when the largest jump of the empirical CDF of
// ratios, a run of tied ratios, holds at least two observations, exceeds Gap
// as a share of the sample, and lies strictly inside the band. Jumps are
// compared as tie counts; among equal runs the lowest ratio wins.
func CDFGap(s *sample.Sample, cfg Config) (Flag, error) {
	if err := prepare("chasing.CDFGap", s, cfg); err != nil {
		return Flag{}, err
	}
	return cdfGap(s, cfg), nil
}

func cdfGap(s *sample.Sample, cfg Config) Flag {
	lo, hi := cfg.band(s)
	n := s.Len()
	sorted := s.SortedRatios()

	ties, at := 0, 0
	for i := 0; i < n; {
		j := i + 1
		for j < n && sorted[j] == sorted[i] {
			j++
		}
		if j-i > ties {
			ties, at = j-i, i
		}
		i = j
	}
	loc := sorted[at]

	jump := stat.CDF(loc, stat.Empirical, sorted, nil)
	if at > 0 {
		jump -= stat.CDF(sorted[at-1], stat.Empirical, sorted, nil)
	}

	var rows []int
	for i := 0; i < n; i++ {
		if s.Ratio(i) == loc {
			rows = append(rows, s.Row(i))
		}
	}
	sort.Ints(rows)

	return Flag{
		Method:    CDF,
		Flagged:   ties >= 2 && float64(ties)/float64(n) > cfg.Gap && loc > lo && loc < hi,
		Score:     jump,
		Threshold: cfg.Gap,
		Rows:      rows,
	}
}

// RoundingTest flags the sample when more than RoundingShare of assessed
// values equal their sale price rounded to RoundingUnit, the signature of an
// assessed value copied from the sale.
func RoundingTest(s *sample.Sample, cfg Config) (Flag, error) {
	if err := prepare("chasing.RoundingTest", s, cfg); err != nil {
		return Flag{}, err
	}
	return rounding(s, cfg), nil
}

func rounding(s *sample.Sample, cfg Config) Flag {
	unit := cfg.RoundingUnit
	var rows []int
	for i := 0; i < s.Len(); i++ {
		o := s.Observation(i)
		rounded := math.Round(o.SalePrice/unit) * unit
		if rounded > 0 && math.Abs(o.Assessed-rounded) <= 1e-9*rounded {
			rows = append(rows, s.Row(i))
		}
	}
	share := float64(len(rows)) / float64(s.Len())
	return Flag{
		Method:    Rounding,
		Flagged:   share > cfg.RoundingShare,
		Score:     share,
		Threshold: cfg.RoundingShare,
		Rows:      rows,
	}
}

// Report is the detector's verdict on a sample.
type Report struct {
	N       int    `json:"n"`
	Flagged bool   `json:"flagged"`
	Rule    Rule   `json:"rule"`
	Flags   []Flag `json:"flags"`
	// SmallSample marks results from fewer than Config.SmallSample observations,
	// where detection is unreliable.
	SmallSample bool `json:"small_sample"`
}

// Flag returns the flag produced by m, if that test ran.
func (r *Report) Flag(m Method) (Flag, bool) {
	for _, f := range r.Flags {
		if f.Method == m {
			return f, true
		}
	}
	return Flag{}, false
}

// FlaggedRows returns the sorted, de-duplicated rows attributed by every
// test that flagged.
func (r *Report) FlaggedRows() []int {
	seen := make(map[int]bool)
	var rows []int
	for _, f := range r.Flags {
		if !f.Flagged {
			continue
		}
		for _, row := range f.Rows {
			if !seen[row] {
				seen[row] = true
				rows = append(rows, row)
			}
		}
	}
	sort.Ints(rows)
	return rows
}

// Detect runs the configured tests against s. s must be the untrimmed
// sample: trimming removes exactly the observations these tests look for.
func Detect(s *sample.Sample, cfg Config) (*Report, error) {
	if err := prepare("chasing.Detect", s, cfg); err != nil {
		return nil, err
	}

	report := &Report{
		N:           s.Len(),
		Rule:        cfg.Rule,
		SmallSample: s.Len() < cfg.SmallSample,
	}
	report.Flagged = cfg.Rule == RequireAll
	for _, m := range cfg.Methods {
		f := tests[m](s, cfg)
		report.Flags = append(report.Flags, f)
		if cfg.Rule == RequireAll {
			report.Flagged = report.Flagged && f.Flagged
		} else {
			report.Flagged = report.Flagged || f.Flagged
		}
	}
	return report, nil
}
