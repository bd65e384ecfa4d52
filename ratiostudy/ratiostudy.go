package ratiostudy

import (
	"github.com/sartorproj/goratio/chasing"
	"github.com/sartorproj/goratio/confidence"
	"github.com/sartorproj/goratio/dispersion"
	"github.com/sartorproj/goratio/pricerelated"
	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
	"github.com/sartorproj/goratio/trim"
)

// Stat names a ratio study statistic.
type Stat string

const (
	StatCOD Stat = "cod"
	StatPRD Stat = "prd"
	StatPRB Stat = "prb"
	StatKI  Stat = "ki"
	StatMKI Stat = "mki"
)

// Result is one computed statistic.
type Result struct {
	Stat     Stat                 `json:"statistic"`
	Value    float64              `json:"value"`
	Interval *confidence.Interval `json:"interval,omitempty"`
	StdErr   float64              `json:"std_err,omitempty"` // PRB only
	N        int                  `json:"n"`                 // observations used
	Excluded int                  `json:"excluded"`          // observations trimmed
	Met      *bool                `json:"met,omitempty"`     // nil when the statistic has no standard
}

// Bounds returns the interval bounds, if an interval was computed.
func (r *Result) Bounds() (lower, upper float64, ok bool) {
	if r.Interval == nil {
		return 0, 0, false
	}
	return r.Interval.Lower, r.Interval.Upper, true
}

// FromPairs builds a sample from parallel assessed values and sale prices.
func FromPairs(assessed, salePrices []float64) (*sample.Sample, error) {
	return sample.New(assessed, salePrices)
}

// study is the working state of one facade call.
type study struct {
	opts    *Options
	full    *sample.Sample
	used    *sample.Sample
	trimmed *trim.Result // nil when untrimmed
}

func begin(op string, s *sample.Sample, opts *Options) (*study, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, studyerr.Invalid(op, "sample is nil")
	}

	st := &study{opts: opts, full: s, used: s}
	if !opts.TrimBeforeCompute {
		return st, nil
	}

	p, _ := opts.policy()
	res, err := trim.Trim(s, p, opts.MinSampleSize)
	if err != nil {
		return nil, studyerr.Wrap(err, op)
	}
	opts.logger().Debug("trimmed sample",
		"policy", p.String(),
		"n", s.Len(),
		"excluded", res.Excluded,
		"passes", res.Passes,
		"lower", res.Lower,
		"upper", res.Upper)
	st.used = res.Sample
	st.trimmed = res
	return st, nil
}

func (st *study) excluded() int {
	return st.full.Len() - st.used.Len()
}

func (st *study) result(stat Stat, value float64) *Result {
	r := &Result{
		Stat:     stat,
		Value:    value,
		N:        st.used.Len(),
		Excluded: st.excluded(),
	}
	if met, ok := st.opts.Standards.Meets(stat, value); ok {
		r.Met = &met
	}
	return r
}

func (st *study) finish(r *Result) *Result {
	st.opts.logger().Debug("computed statistic", "statistic", r.Stat, "value", r.Value, "n", r.N, "excluded", r.Excluded)
	return r
}

func (st *study) bootstrap(fn confidence.Statistic) (*confidence.Interval, error) {
	iv, err := st.opts.bootstrap().Interval(st.used, fn, st.opts.ConfidenceLevel)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// scalar computes a statistic without a closed-form variance and, when
// intervals are enabled, its bootstrap interval.
func (st *study) scalar(op string, stat Stat, fn confidence.Statistic) (*Result, error) {
	v, err := fn(st.used)
	if err != nil {
		return nil, studyerr.Wrap(err, op)
	}
	r := st.result(stat, v)
	if st.opts.Intervals {
		if r.Interval, err = st.bootstrap(fn); err != nil {
			return nil, studyerr.Wrap(err, op)
		}
	}
	return st.finish(r), nil
}

func (st *study) prb(op string, weights []float64) (*Result, error) {
	w, err := st.weights(op, weights)
	if err != nil {
		return nil, err
	}
	fit, err := pricerelated.PRB(st.used, st.used.MedianRatio(), w)
	if err != nil {
		return nil, studyerr.Wrap(err, op)
	}

	r := st.result(StatPRB, fit.Slope)
	r.StdErr = fit.StdErr
	if st.opts.Intervals {
		est := confidence.Analytic{
			StdErr: func(*sample.Sample) (float64, error) { return fit.StdErr, nil },
		}
		if st.opts.PRBInterval == PRBStudentT {
			est.DF = float64(fit.DF)
		}
		iv, err := est.Interval(st.used, func(*sample.Sample) (float64, error) { return fit.Slope, nil }, st.opts.ConfidenceLevel)
		if err != nil {
			return nil, studyerr.Wrap(err, op)
		}
		r.Interval = &iv
	}
	return st.finish(r), nil
}

// weights selects, for each observation in use, its weight from a slice
// aligned with the positions of the sample passed in.
func (st *study) weights(op string, weights []float64) ([]float64, error) {
	if weights == nil {
		return nil, nil
	}
	if len(weights) != st.full.Len() {
		return nil, studyerr.Invalid(op, "weights must have one entry per observation (%d vs %d)", len(weights), st.full.Len())
	}
	if st.trimmed == nil {
		return weights, nil
	}
	w := make([]float64, len(st.trimmed.Kept))
	for i, p := range st.trimmed.Kept {
		w[i] = weights[p]
	}
	return w, nil
}

// COD computes the coefficient of dispersion, with a bootstrap interval when
// opts.Intervals is set. A nil opts selects DefaultOptions.
func COD(s *sample.Sample, opts *Options) (*Result, error) {
	st, err := begin("ratiostudy.COD", s, opts)
	if err != nil {
		return nil, err
	}
	return st.scalar("ratiostudy.COD", StatCOD, dispersion.COD)
}

// PRD computes the price-related differential, with a bootstrap interval.
func PRD(s *sample.Sample, opts *Options) (*Result, error) {
	st, err := begin("ratiostudy.PRD", s, opts)
	if err != nil {
		return nil, err
	}
	return st.scalar("ratiostudy.PRD", StatPRD, pricerelated.PRD)
}

// PRB computes the unweighted price-related bias with its analytic interval:
// Student-t on n-2 degrees of freedom, or the normal z when
// opts.PRBInterval is PRBNormal.
func PRB(s *sample.Sample, opts *Options) (*Result, error) {
	return WeightedPRB(s, nil, opts)
}

// WeightedPRB is PRB fit by weighted least squares. weights holds one
// positive weight per observation of s, in input order; after trimming each
// remaining observation keeps its own weight.
func WeightedPRB(s *sample.Sample, weights []float64, opts *Options) (*Result, error) {
	st, err := begin("ratiostudy.PRB", s, opts)
	if err != nil {
		return nil, err
	}
	return st.prb("ratiostudy.PRB", weights)
}

// KI computes the Kakwani index.
func KI(s *sample.Sample, opts *Options) (*Result, error) {
	st, err := begin("ratiostudy.KI", s, opts)
	if err != nil {
		return nil, err
	}
	return st.scalar("ratiostudy.KI", StatKI, pricerelated.KI)
}

// MKI computes the modified Kakwani index.
func MKI(s *sample.Sample, opts *Options) (*Result, error) {
	st, err := begin("ratiostudy.MKI", s, opts)
	if err != nil {
		return nil, err
	}
	return st.scalar("ratiostudy.MKI", StatMKI, pricerelated.MKI)
}

// CODInterval returns the bootstrap interval for COD regardless of
// opts.Intervals.
func CODInterval(s *sample.Sample, opts *Options) (*confidence.Interval, error) {
	st, err := begin("ratiostudy.CODInterval", s, opts)
	if err != nil {
		return nil, err
	}
	iv, err := st.bootstrap(dispersion.COD)
	if err != nil {
		return nil, studyerr.Wrap(err, "ratiostudy.CODInterval")
	}
	return iv, nil
}

// PRDInterval returns the bootstrap interval for PRD regardless of
// opts.Intervals.
func PRDInterval(s *sample.Sample, opts *Options) (*confidence.Interval, error) {
	st, err := begin("ratiostudy.PRDInterval", s, opts)
	if err != nil {
		return nil, err
	}
	iv, err := st.bootstrap(pricerelated.PRD)
	if err != nil {
		return nil, studyerr.Wrap(err, "ratiostudy.PRDInterval")
	}
	return iv, nil
}

// DetectChasing runs the sales chasing tests on s. s is never trimmed, even
// when opts.TrimBeforeCompute is set.
func DetectChasing(s *sample.Sample, opts *Options) (*chasing.Report, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return detect(s, opts)
}

func detect(s *sample.Sample, opts *Options) (*chasing.Report, error) {
	report, err := chasing.Detect(s, opts.Chasing)
	if err != nil {
		return nil, studyerr.Wrap(err, "ratiostudy.DetectChasing")
	}
	if report.SmallSample {
		opts.logger().Warn("sales chasing detection is unreliable on small samples",
			"n", report.N,
			"recommended", opts.Chasing.SmallSample)
	}
	return report, nil
}

// TrimSummary describes the trimming applied before a study.
type TrimSummary struct {
	Policy       string  `json:"policy"`
	Excluded     int     `json:"excluded"`
	ExcludedRows []int   `json:"excluded_rows"`
	Lower        float64 `json:"lower_fence"`
	Upper        float64 `json:"upper_fence"`
	Passes       int     `json:"passes"`
}

// Report holds every statistic for one sample.
type Report struct {
	N       int             `json:"n"`
	Trim    *TrimSummary    `json:"trim,omitempty"`
	COD     *Result         `json:"cod"`
	PRD     *Result         `json:"prd"`
	PRB     *Result         `json:"prb"`
	KI      *Result         `json:"ki"`
	MKI     *Result         `json:"mki"`
	Chasing *chasing.Report `json:"chasing"`
}

// Run computes every statistic on s, trimming once when configured, and runs
// sales chasing detection on the untrimmed sample. It stops at the first error.
func Run(s *sample.Sample, opts *Options) (*Report, error) {
	const op = "ratiostudy.Run"
	st, err := begin(op, s, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{N: s.Len()}
	if st.trimmed != nil {
		p, _ := st.opts.policy()
		report.Trim = &TrimSummary{
			Policy:       p.String(),
			Excluded:     st.trimmed.Excluded,
			ExcludedRows: st.trimmed.ExcludedRows,
			Lower:        st.trimmed.Lower,
			Upper:        st.trimmed.Upper,
			Passes:       st.trimmed.Passes,
		}
	}

	if report.COD, err = st.scalar(op, StatCOD, dispersion.COD); err != nil {
		return nil, err
	}
	if report.PRD, err = st.scalar(op, StatPRD, pricerelated.PRD); err != nil {
		return nil, err
	}
	if report.PRB, err = st.prb(op, nil); err != nil {
		return nil, err
	}
	if report.KI, err = st.scalar(op, StatKI, pricerelated.KI); err != nil {
		return nil, err
	}
	if report.MKI, err = st.scalar(op, StatMKI, pricerelated.MKI); err != nil {
		return nil, err
	}
	if report.Chasing, err = detect(s, st.opts); err != nil {
		return nil, err
	}
	return report, nil
}
