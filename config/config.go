package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/sartorproj/goratio/chasing"
	"github.com/sartorproj/goratio/ratiostudy"
	"github.com/sartorproj/goratio/studyerr"
)

// EnvPrefix prefixes every environment override, e.g. RATIOSTUDY_TRIM_ENABLED.
const EnvPrefix = "RATIOSTUDY"

// Config is the file and environment form of ratiostudy.Options.
type Config struct {
	Trim      TrimConfig           `yaml:"trim" envconfig:"TRIM"`
	Intervals IntervalConfig       `yaml:"intervals" envconfig:"INTERVALS"`
	Chasing   ChasingConfig        `yaml:"chasing" envconfig:"CHASING"`
	Standards ratiostudy.Standards `yaml:"standards" envconfig:"STANDARDS"`
	Logging   LoggingConfig        `yaml:"logging" envconfig:"LOGGING"`
}

// TrimConfig controls outlier trimming.
type TrimConfig struct {
	Enabled         bool    `yaml:"enabled" envconfig:"ENABLED"`
	Method          string  `yaml:"method" envconfig:"METHOD" validate:"oneof=iqr percentile"`
	IQRMultiplier   float64 `yaml:"iqr_multiplier" envconfig:"IQR_MULTIPLIER" validate:"gt=0"`
	PercentileLower float64 `yaml:"percentile_lower" envconfig:"PERCENTILE_LOWER" validate:"gte=0,lt=1"`
	PercentileUpper float64 `yaml:"percentile_upper" envconfig:"PERCENTILE_UPPER" validate:"gt=0,lte=1,gtfield=PercentileLower"`
	MinSampleSize   int     `yaml:"min_sample_size" envconfig:"MIN_SAMPLE_SIZE" validate:"min=1"`
}

// IntervalConfig controls confidence intervals.
type IntervalConfig struct {
	Enabled             bool    `yaml:"enabled" envconfig:"ENABLED"`
	Level               float64 `yaml:"level" envconfig:"LEVEL" validate:"gt=0,lt=1"`
	BootstrapIterations int     `yaml:"bootstrap_iterations" envconfig:"BOOTSTRAP_ITERATIONS" validate:"min=1"`
	Seed                uint64  `yaml:"seed" envconfig:"SEED"`
	PRBMethod           string  `yaml:"prb_method" envconfig:"PRB_METHOD" validate:"oneof=t normal"`
}

// ChasingConfig controls sales chasing detection.
type ChasingConfig struct {
	Lower            float64  `yaml:"lower" envconfig:"LOWER" validate:"gt=0"`
	Upper            float64  `yaml:"upper" envconfig:"UPPER" validate:"gtfield=Lower"`
	BandAroundMedian bool     `yaml:"band_around_median" envconfig:"BAND_AROUND_MEDIAN"`
	Gap              float64  `yaml:"gap" envconfig:"GAP" validate:"gt=0,lt=1"`
	MinZ             float64  `yaml:"min_z" envconfig:"MIN_Z" validate:"gte=0"`
	RoundingUnit     float64  `yaml:"rounding_unit" envconfig:"ROUNDING_UNIT" validate:"gt=0"`
	RoundingShare    float64  `yaml:"rounding_share" envconfig:"ROUNDING_SHARE" validate:"gt=0,lt=1"`
	Methods          []string `yaml:"methods" envconfig:"METHODS" validate:"min=1,dive,oneof=distribution cdf rounding"`
	Rule             string   `yaml:"rule" envconfig:"RULE" validate:"oneof=any all"`
	SmallSample      int      `yaml:"small_sample" envconfig:"SMALL_SAMPLE" validate:"min=0"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// Default returns the configuration equivalent to ratiostudy.DefaultOptions.
func Default() *Config {
	o := ratiostudy.DefaultOptions()
	methods := make([]string, len(o.Chasing.Methods))
	for i, m := range o.Chasing.Methods {
		methods[i] = string(m)
	}
	return &Config{
		Trim: TrimConfig{
			Enabled:         o.TrimBeforeCompute,
			Method:          o.TrimMethod,
			IQRMultiplier:   o.IQRMultiplier,
			PercentileLower: o.PercentileLower,
			PercentileUpper: o.PercentileUpper,
			MinSampleSize:   o.MinSampleSize,
		},
		Intervals: IntervalConfig{
			Enabled:             o.Intervals,
			Level:               o.ConfidenceLevel,
			BootstrapIterations: o.BootstrapIterations,
			Seed:                o.RandomSeed,
			PRBMethod:           o.PRBInterval,
		},
		Chasing: ChasingConfig{
			Lower:            o.Chasing.Lower,
			Upper:            o.Chasing.Upper,
			BandAroundMedian: o.Chasing.BandAroundMedian,
			Gap:              o.Chasing.Gap,
			MinZ:             o.Chasing.MinZ,
			RoundingUnit:     o.Chasing.RoundingUnit,
			RoundingShare:    o.Chasing.RoundingShare,
			Methods:          methods,
			Rule:             string(o.Chasing.Rule),
			SmallSample:      o.Chasing.SmallSample,
		},
		Standards: o.Standards,
		Logging:   LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load builds a Config from the defaults, then the YAML file at path (skipped
// when path is empty), then RATIOSTUDY_* environment variables, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current values.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report YAML key names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks field shapes with struct tags, then the combined options.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return studyerr.Config("config", "%s fails %q (got %v)", fe.Namespace(), fe.Tag()+paramSuffix(fe.Param()), fe.Value())
		}
		return studyerr.Config("config", "%v", err)
	}
	return c.Options(io.Discard).Validate()
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return "=" + param
}

func (c *Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return 0, studyerr.Config("config", "unknown logging level %q", c.Logging.Level)
	}
	return level, nil
}

// Logger returns a logger writing to w with the configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Options converts the configuration to ratiostudy.Options logging to w.
func (c *Config) Options(w io.Writer) *ratiostudy.Options {
	methods := make([]chasing.Method, len(c.Chasing.Methods))
	for i, m := range c.Chasing.Methods {
		methods[i] = chasing.Method(m)
	}
	return &ratiostudy.Options{
		TrimBeforeCompute:   c.Trim.Enabled,
		TrimMethod:          c.Trim.Method,
		IQRMultiplier:       c.Trim.IQRMultiplier,
		PercentileLower:     c.Trim.PercentileLower,
		PercentileUpper:     c.Trim.PercentileUpper,
		MinSampleSize:       c.Trim.MinSampleSize,
		Intervals:           c.Intervals.Enabled,
		ConfidenceLevel:     c.Intervals.Level,
		BootstrapIterations: c.Intervals.BootstrapIterations,
		RandomSeed:          c.Intervals.Seed,
		PRBInterval:         c.Intervals.PRBMethod,
		Chasing: chasing.Config{
			Lower:            c.Chasing.Lower,
			Upper:            c.Chasing.Upper,
			BandAroundMedian: c.Chasing.BandAroundMedian,
			Gap:              c.Chasing.Gap,
			MinZ:             c.Chasing.MinZ,
			RoundingUnit:     c.Chasing.RoundingUnit,
			RoundingShare:    c.Chasing.RoundingShare,
			Methods:          methods,
			Rule:             chasing.Rule(c.Chasing.Rule),
			SmallSample:      c.Chasing.SmallSample,
		},
		Standards: c.Standards,
		Logger:    c.Logger(w),
	}
}
