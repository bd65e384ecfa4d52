package trim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goratio/sample"
	"github.com/sartorproj/goratio/studyerr"
)

// fromRatios builds a sample whose sale prices are all 1000.
func fromRatios(t *testing.T, ratios []float64) *sample.Sample {
	t.Helper()
	assessed := make([]float64, len(ratios))
	sale := make([]float64, len(ratios))
	for i, r := range ratios {
		assessed[i] = r * 1000
		sale[i] = 1000
	}
	s, err := sample.New(assessed, sale)
	require.NoError(t, err)
	return s
}

// steadyRatios returns 0.90, 0.91, ..., 1.09.
func steadyRatios() []float64 {
	out := make([]float64, 20)
	for i := range out {
		out[i] = 0.90 + float64(i)*0.01
	}
	return out
}

func TestTrimIQRExcludesExtremeRatio(t *testing.T) {
	ratios := steadyRatios()
	ratios = append(ratios[:7], append([]float64{5.0}, ratios[7:]...)...)
	s := fromRatios(t, ratios)

	res, err := Trim(s, IQR{Multiplier: ExtremeMultiplier}, 0)
	require.NoError(t, err)

	assert.Equal(t, 20, res.Sample.Len())
	assert.Equal(t, 1, res.Excluded)
	assert.Equal(t, []int{7}, res.ExcludedRows)
	assert.NotContains(t, res.Sample.Rows(), 7)
	assert.Equal(t, 2, res.Passes)
	assert.Less(t, res.Lower, 0.90)
	assert.Greater(t, res.Upper, 1.09)

	// The input is untouched.
	assert.Equal(t, 21, s.Len())
}

func TestTrimKeptPositionsOfSubset(t *testing.T) {
	s := fromRatios(t, append([]float64{5.0}, steadyRatios()...))

	// reversed, so positions in sub no longer equal rows
	positions := make([]int, s.Len())
	for i := range positions {
		positions[i] = s.Len() - 1 - i
	}
	sub, err := s.Subset(positions)
	require.NoError(t, err)

	res, err := Trim(sub, IQR{Multiplier: ExtremeMultiplier}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.ExcludedRows)
	require.Len(t, res.Kept, res.Sample.Len())
	for i, p := range res.Kept {
		assert.Equal(t, sub.Row(p), res.Sample.Row(i))
		assert.Equal(t, sub.Observation(p), res.Sample.Observation(i))
	}
	assert.NotContains(t, res.Kept, sub.Len()-1)
}

func TestTrimIsIdempotent(t *testing.T) {
	ratios := append(steadyRatios(), 5.0, 0.1, 1.4)
	s := fromRatios(t, ratios)

	for _, k := range []float64{ExtremeMultiplier, ModerateMultiplier} {
		first, err := Trim(s, IQR{Multiplier: k}, 0)
		require.NoError(t, err)

		second, err := Trim(first.Sample, IQR{Multiplier: k}, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, second.Excluded, "multiplier %v", k)
		assert.Equal(t, first.Sample.Rows(), second.Sample.Rows())
	}
}

func TestTrimMultiplierControlsAggressiveness(t *testing.T) {
	s := fromRatios(t, append(steadyRatios(), 1.25))

	extreme, err := Trim(s, IQR{Multiplier: ExtremeMultiplier}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, extreme.Excluded)

	moderate, err := Trim(s, IQR{Multiplier: ModerateMultiplier}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, moderate.Excluded)
	assert.Equal(t, []int{20}, moderate.ExcludedRows)
}

func TestTrimPercentile(t *testing.T) {
	ratios := make([]float64, 20)
	for i := range ratios {
		ratios[i] = float64(i+1) / 10
	}
	s := fromRatios(t, ratios)

	res, err := Trim(s, DefaultPercentile(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Excluded)
	assert.ElementsMatch(t, []int{0, 19}, res.ExcludedRows)
	assert.Equal(t, 1, res.Passes)
}

func TestTrimInsufficient(t *testing.T) {
	s := fromRatios(t, []float64{0.9, 1.0, 1.1, 1.2})
	_, err := Trim(s, IQR{Multiplier: 3}, 0)
	assert.ErrorIs(t, err, studyerr.ErrInsufficientSample)

	// Five observations, one of which is trimmed away.
	s = fromRatios(t, []float64{1.0, 1.0, 1.0, 1.0, 9.0})
	_, err = Trim(s, IQR{Multiplier: 3}, 5)
	assert.ErrorIs(t, err, studyerr.ErrInsufficientSample)

	res, err := Trim(s, IQR{Multiplier: 3}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Sample.Len())
}

func TestTrimRejectsBadPolicy(t *testing.T) {
	s := fromRatios(t, steadyRatios())

	tests := []struct {
		name   string
		policy Policy
	}{
		{"nil", nil},
		{"zero multiplier", IQR{}},
		{"negative multiplier", IQR{Multiplier: -1}},
		{"inverted percentile", Percentile{Lower: 0.9, Upper: 0.1}},
		{"percentile above one", Percentile{Lower: 0.1, Upper: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Trim(s, tt.policy, 0)
			assert.ErrorIs(t, err, studyerr.ErrConfiguration)
		})
	}
}

func TestFlags(t *testing.T) {
	s := fromRatios(t, append(steadyRatios(), 5.0))
	flags, err := Flags(s, IQR{Multiplier: 3})
	require.NoError(t, err)
	require.Len(t, flags, 21)

	for i, f := range flags {
		assert.Equal(t, i == 20, f, "row %d", i)
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "iqr(1.5)", IQR{Multiplier: 1.5}.String())
	assert.Equal(t, "percentile(0.05,0.95)", DefaultPercentile().String())
}
