package dispersion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goratio/internal/synth"
	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
)

func TestCODUniformRatiosIsZero(t *testing.T) {
	s, err := sample.New([]float64{100, 200, 300, 400}, []float64{100, 200, 300, 400})
	require.NoError(t, err)

	cod, err := COD(s)
	require.NoError(t, err)
	assert.Equal(t, 0.0, cod)
}

func TestCODKnownValue(t *testing.T) {
	// ratios 0.8, 0.9, 1.1, 1.2; median 1.0; mean |dev| 0.15
	s, err := sample.New([]float64{80, 180, 330, 480}, []float64{100, 200, 300, 400})
	require.NoError(t, err)

	cod, err := COD(s)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, cod, 1e-9)
}

func TestCODIsNonNegative(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		s := synth.Normal(seed, 200, 1.0, 0.2)
		cod, err := COD(s)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cod, 0.0)
		assert.Greater(t, cod, 0.0, "dispersed sample should have positive COD")
	}
}

func TestCODAround(t *testing.T) {
	cod, err := CODAround([]float64{0.5, 1.5}, 1.0)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, cod, 1e-12)

	_, err = CODAround([]float64{1}, 0)
	assert.ErrorIs(t, err, studyerr.ErrDegenerateSample)

	_, err = CODAround([]float64{1}, math.NaN())
	assert.ErrorIs(t, err, studyerr.ErrDegenerateSample)

	_, err = CODAround(nil, 1)
	assert.ErrorIs(t, err, studyerr.ErrInvalidSample)

	_, err = COD(nil)
	assert.ErrorIs(t, err, studyerr.ErrInvalidSample)
}

func TestMeanAbsoluteDeviation(t *testing.T) {
	assert.InDelta(t, 1.0, MeanAbsoluteDeviation([]float64{1, 3}, 2), 1e-12)
	assert.InDelta(t, 0.0, MeanAbsoluteDeviation([]float64{2, 2, 2}, 2), 1e-12)
}
