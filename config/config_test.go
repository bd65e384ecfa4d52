package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goratio/chasing"
	"github.com/sartorproj/goratio/ratiostudy"
	"github.com/sartorproj/goratio/studyerr"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ratiostudy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultMatchesOptions(t *testing.T) {
	got := Default().Options(io.Discard)
	require.NotNil(t, got.Logger)
	got.Logger = nil
	assert.Equal(t, ratiostudy.DefaultOptions(), got)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		env      map[string]string
		validate func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "file overrides defaults",
			file: `
trim:
  enabled: true
  iqr_multiplier: 1.5
intervals:
  seed: 42
  level: 0.9
chasing:
  methods: [distribution, cdf]
  rule: all
standards:
  cod:
    min: 5
    max: 10
`,
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Trim.Enabled)
				assert.Equal(t, 1.5, cfg.Trim.IQRMultiplier)
				assert.Equal(t, "iqr", cfg.Trim.Method)
				assert.Equal(t, uint64(42), cfg.Intervals.Seed)
				assert.Equal(t, 0.9, cfg.Intervals.Level)
				assert.Equal(t, 1000, cfg.Intervals.BootstrapIterations)
				assert.Equal(t, []string{"distribution", "cdf"}, cfg.Chasing.Methods)
				assert.Equal(t, 10.0, cfg.Standards.COD.Max)
				assert.Equal(t, 1.03, cfg.Standards.PRD.Max)
			},
		},
		{
			name: "env overrides file",
			file: `
trim:
  iqr_multiplier: 1.5
`,
			env: map[string]string{
				"RATIOSTUDY_TRIM_IQR_MULTIPLIER":   "3",
				"RATIOSTUDY_INTERVALS_SEED":        "7",
				"RATIOSTUDY_CHASING_METHODS":       "rounding",
				"RATIOSTUDY_CHASING_ROUNDING_UNIT": "500",
				"RATIOSTUDY_STANDARDS_PRB_MAX":     "0.1",
				"RATIOSTUDY_LOGGING_FORMAT":        "json",
				"RATIOSTUDY_TRIM_ENABLED":          "true",
				"RATIOSTUDY_INTERVALS_ENABLED":     "false",
				"RATIOSTUDY_INTERVALS_PRB_METHOD":  "normal",
				"RATIOSTUDY_CHASING_MIN_Z":         "2.5",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 3.0, cfg.Trim.IQRMultiplier)
				assert.True(t, cfg.Trim.Enabled)
				assert.False(t, cfg.Intervals.Enabled)
				assert.Equal(t, uint64(7), cfg.Intervals.Seed)
				assert.Equal(t, []string{"rounding"}, cfg.Chasing.Methods)
				assert.Equal(t, 500.0, cfg.Chasing.RoundingUnit)
				assert.Equal(t, 0.1, cfg.Standards.PRB.Max)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "normal", cfg.Intervals.PRBMethod)
				assert.Equal(t, 2.5, cfg.Chasing.MinZ)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			cfg, err := Load(path)
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "trim: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "intervals:\n  level: 2\n"))
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	_, err = Load(writeFile(t, "chasing:\n  methods: [ks]\n"))
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	_, err = Load(writeFile(t, "logging:\n  level: loud\n"))
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	_, err = Load(writeFile(t, "logging:\n  format: xml\n"))
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	_, err = Load(writeFile(t, "chasing:\n  lower: 1.1\n  upper: 1.0\n"))
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	_, err = Load(writeFile(t, "intervals:\n  prb_method: wald\n"))
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	_, err = Load(writeFile(t, "chasing:\n  min_z: -1\n"))
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	t.Setenv("RATIOSTUDY_INTERVALS_SEED", "not-a-number")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidateNamesYAMLKeys(t *testing.T) {
	cfg := Default()
	cfg.Trim.Method = "winsor"
	err := cfg.Validate()
	require.ErrorIs(t, err, studyerr.ErrConfiguration)
	assert.Contains(t, err.Error(), "trim.method")
	assert.Contains(t, err.Error(), "oneof=iqr percentile")

	cfg = Default()
	cfg.Intervals.BootstrapIterations = 0
	err = cfg.Validate()
	require.ErrorIs(t, err, studyerr.ErrConfiguration)
	assert.Contains(t, err.Error(), "intervals.bootstrap_iterations")
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Trim.Enabled = true
	cfg.Chasing.Methods = []string{"distribution"}
	cfg.Chasing.Rule = "all"

	opts := cfg.Options(io.Discard)
	require.NoError(t, opts.Validate())
	assert.True(t, opts.TrimBeforeCompute)
	assert.Equal(t, []chasing.Method{chasing.Distribution}, opts.Chasing.Methods)
	assert.Equal(t, chasing.RequireAll, opts.Chasing.Rule)

	cfg.Intervals.PRBMethod = "normal"
	assert.Equal(t, ratiostudy.PRBNormal, cfg.Options(io.Discard).PRBInterval)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.Logging = LoggingConfig{Level: "debug", Format: "json"}

	cfg.Logger(&buf).Debug("hello", "n", 3)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"n":3`)

	buf.Reset()
	cfg.Logging = LoggingConfig{Level: "warn", Format: "text"}
	cfg.Logger(&buf).Info("quiet")
	assert.Empty(t, buf.String())
}
