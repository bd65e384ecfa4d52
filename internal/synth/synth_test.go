package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalIsReproducible(t *testing.T) {
	a := Normal(7, 50, 1, 0.15)
	b := Normal(7, 50, 1, 0.15)
	c := Normal(8, 50, 1, 0.15)

	assert.Equal(t, a.Ratios(), b.Ratios())
	assert.NotEqual(t, a.Ratios(), c.Ratios())
	assert.Equal(t, 50, a.Len())
}

func TestChasedForcesFraction(t *testing.T) {
	s, forced := Chased(3, 200, 0.9, 0.98, 1.02, 0.15)
	assert.Len(t, forced, 180)
	for _, i := range forced {
		r := s.Ratio(i)
		assert.True(t, r >= 0.98 && r <= 1.02, "row %d ratio %v", i, r)
	}
}

func TestCopiedMatchesRoundedSale(t *testing.T) {
	s, copied := Copied(4, 100, 0.2, 1000, 0.15)
	assert.Len(t, copied, 20)
	for _, i := range copied {
		o := s.Observation(i)
		assert.InDelta(t, o.SalePrice, o.Assessed, 500)
	}
}
