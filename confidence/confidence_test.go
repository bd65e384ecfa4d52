package confidence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goratio/dispersion"
	"github.com/sartorproj/goratio/internal/synth"
	"github.com/sartorproj/goratio/pricerelated"
	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
)

func TestBootstrapIsReproducible(t *testing.T) {
	s := synth.Normal(21, 150, 1.0, 0.2)
	b := Bootstrap{Iterations: 500, Seed: 99}

	first, err := b.Interval(s, dispersion.COD, 0.95)
	require.NoError(t, err)
	second, err := b.Interval(s, dispersion.COD, 0.95)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := Bootstrap{Iterations: 500, Seed: 100}.Interval(s, dispersion.COD, 0.95)
	require.NoError(t, err)
	assert.NotEqual(t, first.Lower, other.Lower)
	assert.Equal(t, "bootstrap-percentile", first.Method)
}

func TestBootstrapIsSafeForConcurrentUse(t *testing.T) {
	s := synth.Normal(22, 100, 1.0, 0.15)
	b := Bootstrap{Iterations: 200, Seed: 7}
	want, err := b.Interval(s, pricerelated.PRD, 0.9)
	require.NoError(t, err)

	var wg sync.WaitGroup
	got := make([]Interval, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = b.Interval(s, pricerelated.PRD, 0.9)
		}(i)
	}
	wg.Wait()

	for _, iv := range got {
		assert.Equal(t, want, iv)
	}
}

func TestBootstrapContainsEstimate(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		s := synth.Normal(seed, 60, 1.0, 0.25)
		prd, err := pricerelated.PRD(s)
		require.NoError(t, err)

		iv, err := Bootstrap{Iterations: 300, Seed: seed}.Interval(s, pricerelated.PRD, 0.95)
		require.NoError(t, err)
		assert.Equal(t, prd, iv.Estimate)
		assert.True(t, iv.Contains(prd), "seed %d: %v not in [%v, %v]", seed, prd, iv.Lower, iv.Upper)
	}
}

func TestWiderLevelNeverNarrows(t *testing.T) {
	s := synth.Normal(31, 120, 1.0, 0.2)
	levels := []float64{0.5, 0.8, 0.9, 0.95, 0.99}

	estimators := map[string]Estimator{
		"bootstrap": Bootstrap{Iterations: 400, Seed: 5},
		"analytic":  Analytic{StdErr: pricerelated.PRBStdErr},
	}
	stats := map[string]Statistic{
		"bootstrap": pricerelated.PRD,
		"analytic":  pricerelated.PRBSlope,
	}

	for name, est := range estimators {
		t.Run(name, func(t *testing.T) {
			var prev Interval
			for i, level := range levels {
				iv, err := est.Interval(s, stats[name], level)
				require.NoError(t, err)
				if i > 0 {
					assert.LessOrEqual(t, iv.Lower, prev.Lower)
					assert.GreaterOrEqual(t, iv.Upper, prev.Upper)
				}
				prev = iv
			}
		})
	}
}

func TestAnalyticPRB(t *testing.T) {
	s, err := sample.New([]float64{80, 180, 330, 480}, []float64{100, 200, 300, 400})
	require.NoError(t, err)

	normal, err := Analytic{StdErr: pricerelated.PRBStdErr}.Interval(s, pricerelated.PRBSlope, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.178393-1.959964*0.029849, normal.Lower, 1e-4)
	assert.Greater(t, normal.Lower, 0.0)
	assert.Equal(t, "analytic-normal", normal.Method)

	student, err := Analytic{StdErr: pricerelated.PRBStdErr, DF: 2}.Interval(s, pricerelated.PRBSlope, 0.95)
	require.NoError(t, err)
	assert.Greater(t, student.Lower, 0.0)
	assert.Greater(t, student.Width(), normal.Width())
	assert.Equal(t, "analytic-t", student.Method)
	assert.True(t, student.Contains(student.Estimate))
}

func TestConfigurationErrors(t *testing.T) {
	s := synth.Normal(1, 20, 1, 0.1)

	for _, level := range []float64{0, 1, -0.5, 1.5} {
		_, err := Bootstrap{Iterations: 10}.Interval(s, dispersion.COD, level)
		assert.ErrorIs(t, err, studyerr.ErrConfiguration, "level %v", level)

		_, err = Analytic{StdErr: pricerelated.PRBStdErr}.Interval(s, pricerelated.PRBSlope, level)
		assert.ErrorIs(t, err, studyerr.ErrConfiguration, "level %v", level)
	}

	_, err := Bootstrap{}.Interval(s, dispersion.COD, 0.95)
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	_, err = Bootstrap{Iterations: 10}.Interval(s, nil, 0.95)
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	_, err = Analytic{}.Interval(s, pricerelated.PRBSlope, 0.95)
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)

	_, err = Analytic{StdErr: pricerelated.PRBStdErr, DF: -1}.Interval(s, pricerelated.PRBSlope, 0.95)
	assert.ErrorIs(t, err, studyerr.ErrConfiguration)
}

func TestStatisticErrorsPropagate(t *testing.T) {
	s := synth.Normal(2, 20, 1, 0.1)
	failing := func(*sample.Sample) (float64, error) {
		return 0, studyerr.Degenerate("test", "always fails")
	}

	_, err := Bootstrap{Iterations: 10, Seed: 1}.Interval(s, failing, 0.95)
	assert.ErrorIs(t, err, studyerr.ErrDegenerateSample)

	_, err = Analytic{StdErr: failing}.Interval(s, pricerelated.PRBSlope, 0.95)
	assert.ErrorIs(t, err, studyerr.ErrDegenerateSample)
}

func TestDistributionLength(t *testing.T) {
	s := synth.Normal(3, 30, 1, 0.1)
	dist, err := Bootstrap{Iterations: 25, Seed: 3}.Distribution(s, dispersion.COD)
	require.NoError(t, err)
	assert.Len(t, dist, 25)
}

func TestBootstrapDropsDegenerateResamples(t *testing.T) {
	// four distinct sales: about one resample in 64 repeats a single sale
	s, err := sample.New([]float64{80, 180, 330, 480}, []float64{100, 200, 300, 400})
	require.NoError(t, err)

	b := Bootstrap{Iterations: 500, Seed: 12}
	dist, err := b.Distribution(s, pricerelated.MKI)
	require.NoError(t, err)
	assert.Greater(t, len(dist), 400)
	assert.LessOrEqual(t, len(dist), 500)

	iv, err := b.Interval(s, pricerelated.MKI, 0.95)
	require.NoError(t, err)
	assert.True(t, iv.Contains(iv.Estimate))
}
