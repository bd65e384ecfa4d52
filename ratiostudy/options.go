package ratiostudy

import (
	"log/slog"

	"github.com/sartorproj/goratio/chasing"
	"github.com/sartorproj/goratio/confidence"
	"github.com/sartorproj/goratio/studyerr"
	"github.com/sartorproj/goratio/trim"
)

// Trim methods.
const (
	TrimIQR        = "iqr"
	TrimPercentile = "percentile"
)

// PRB interval distributions.
const (
	PRBStudentT = "t"      // Student's t on n-2 degrees of freedom
	PRBNormal   = "normal" // standard normal z
)

// Options holds configuration shared by every facade call.
type Options struct {
	TrimBeforeCompute bool    `yaml:"trim_before_compute" json:"trim_before_compute"` // trim outliers before COD, PRD, PRB, KI and MKI (default: false)
	TrimMethod        string  `yaml:"trim_method" json:"trim_method"`                 // "iqr" or "percentile" (default: "iqr")
	IQRMultiplier     float64 `yaml:"iqr_multiplier" json:"iqr_multiplier"`           // 3 for extreme outliers, 1.5 for moderate (default: 3)
	PercentileLower   float64 `yaml:"percentile_lower" json:"percentile_lower"`       // default: 0.05
	PercentileUpper   float64 `yaml:"percentile_upper" json:"percentile_upper"`       // default: 0.95
	MinSampleSize     int     `yaml:"min_sample_size" json:"min_sample_size"`         // fewest observations trimming may leave (default: 5)

	Intervals           bool    `yaml:"intervals" json:"intervals"`                       // attach confidence intervals to results (default: true)
	ConfidenceLevel     float64 `yaml:"confidence_level" json:"confidence_level"`         // default: 0.95
	BootstrapIterations int     `yaml:"bootstrap_iterations" json:"bootstrap_iterations"` // default: 1000
	RandomSeed          uint64  `yaml:"random_seed" json:"random_seed"`
	PRBInterval         string  `yaml:"prb_interval" json:"prb_interval"` // "t" or "normal" (default: "t")

	Chasing   chasing.Config `yaml:"chasing" json:"chasing"`
	Standards Standards      `yaml:"standards" json:"standards"`

	// Logger receives debug output for trimming and computed statistics.
	// Nil means slog.Default().
	Logger *slog.Logger `yaml:"-" json:"-"`
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{
		TrimMethod:          TrimIQR,
		IQRMultiplier:       trim.ExtremeMultiplier,
		PercentileLower:     0.05,
		PercentileUpper:     0.95,
		MinSampleSize:       trim.DefaultMinRemaining,
		Intervals:           true,
		ConfidenceLevel:     confidence.DefaultLevel,
		BootstrapIterations: confidence.DefaultIterations,
		PRBInterval:         PRBStudentT,
		Chasing:             chasing.DefaultConfig(),
		Standards:           DefaultStandards(),
	}
}

// Validate checks every option and returns a configuration error for the
// first one out of range.
func (o *Options) Validate() error {
	if _, err := o.policy(); err != nil {
		return err
	}
	if o.MinSampleSize < 1 {
		return studyerr.Config("ratiostudy.Options", "min sample size must be at least 1, got %d", o.MinSampleSize)
	}
	if err := confidence.ValidateLevel(o.ConfidenceLevel); err != nil {
		return err
	}
	if o.BootstrapIterations < 1 {
		return studyerr.Config("ratiostudy.Options", "bootstrap iterations must be at least 1, got %d", o.BootstrapIterations)
	}
	if o.PRBInterval != PRBStudentT && o.PRBInterval != PRBNormal {
		return studyerr.Config("ratiostudy.Options", "prb interval must be %q or %q, got %q", PRBStudentT, PRBNormal, o.PRBInterval)
	}
	if err := o.Chasing.Validate(); err != nil {
		return err
	}
	return o.Standards.Validate()
}

func (o *Options) policy() (trim.Policy, error) {
	var p trim.Policy
	switch o.TrimMethod {
	case TrimIQR:
		p = trim.IQR{Multiplier: o.IQRMultiplier}
	case TrimPercentile:
		p = trim.Percentile{Lower: o.PercentileLower, Upper: o.PercentileUpper}
	default:
		return nil, studyerr.Config("ratiostudy.Options", "trim method must be %q or %q, got %q", TrimIQR, TrimPercentile, o.TrimMethod)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *Options) bootstrap() confidence.Bootstrap {
	return confidence.Bootstrap{Iterations: o.BootstrapIterations, Seed: o.RandomSeed}
}
