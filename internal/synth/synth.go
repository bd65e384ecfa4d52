// Package synth generates reproducible ratio study samples for tests and demos.
package synth

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/goratio/sample"
)

// median sale price of generated samples
const typicalSale = 250000

type generator struct {
	rng   *rand.Rand
	sales distuv.LogNormal
	noise distuv.Normal
}

func newGenerator(seed uint64, sd float64) *generator {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &generator{
		rng:   rand.New(src),
		sales: distuv.LogNormal{Mu: math.Log(typicalSale), Sigma: 0.6, Src: src},
		noise: distuv.Normal{Mu: 0, Sigma: sd, Src: src},
	}
}

// salePrice draws a sale price rounded to the nearest 500.
func (g *generator) salePrice() float64 {
	p := math.Round(g.sales.Rand()/500) * 500
	return math.Max(p, 5000)
}

// ratio draws mean + noise, redrawn until it is a plausible positive ratio.
func (g *generator) ratio(mean float64) float64 {
	for {
		r := mean + g.noise.Rand()
		if r > 0.05 {
			return r
		}
	}
}

func build(assessed, sale []float64) *sample.Sample {
	s, err := sample.New(assessed, sale)
	if err != nil {
		panic(err)
	}
	return s
}

// Normal returns n observations whose ratios follow N(mean, sd).
func Normal(seed uint64, n int, mean, sd float64) *sample.Sample {
	g := newGenerator(seed, sd)
	assessed := make([]float64, n)
	sale := make([]float64, n)
	for i := range sale {
		sale[i] = g.salePrice()
		assessed[i] = g.ratio(mean) * sale[i]
	}
	return build(assessed, sale)
}

// Chased returns n observations where a fraction of ratios is forced
// uniformly into [lo, hi] and the rest follow N(1, sd). Forced rows are
// spread through the sample rather than grouped.
func Chased(seed uint64, n int, fraction, lo, hi, sd float64) (*sample.Sample, []int) {
	g := newGenerator(seed, sd)
	assessed := make([]float64, n)
	sale := make([]float64, n)
	forced := g.rng.Perm(n)[:int(math.Round(fraction*float64(n)))]
	isForced := make(map[int]bool, len(forced))
	for _, i := range forced {
		isForced[i] = true
	}

	for i := range sale {
		sale[i] = g.salePrice()
		r := g.ratio(1)
		if isForced[i] {
			r = lo + g.rng.Float64()*(hi-lo)
		}
		assessed[i] = r * sale[i]
	}
	return build(assessed, sale), forced
}

// Copied returns n observations where a fraction of assessed values were set
// to the sale price rounded to unit, the rest following N(1, sd).
func Copied(seed uint64, n int, fraction, unit, sd float64) (*sample.Sample, []int) {
	g := newGenerator(seed, sd)
	assessed := make([]float64, n)
	sale := make([]float64, n)
	copied := g.rng.Perm(n)[:int(math.Round(fraction*float64(n)))]
	isCopied := make(map[int]bool, len(copied))
	for _, i := range copied {
		isCopied[i] = true
	}

	for i := range sale {
		sale[i] = g.salePrice() + float64(g.rng.IntN(500)) // break round sale prices
		assessed[i] = g.ratio(1) * sale[i]
		if isCopied[i] {
			assessed[i] = math.Max(math.Round(sale[i]/unit)*unit, unit)
		}
	}
	return build(assessed, sale), copied
}

// Tiered returns n observations whose ratios drift with property value:
// ratio = 1 + slope*log2(sale/typicalSale) + noise. A positive slope means
// higher-value properties are assessed at higher ratios.
func Tiered(seed uint64, n int, slope, sd float64) *sample.Sample {
	g := newGenerator(seed, sd)
	assessed := make([]float64, n)
	sale := make([]float64, n)
	for i := range sale {
		sale[i] = g.salePrice()
		mean := math.Max(1+slope*math.Log2(sale[i]/typicalSale), 0.1)
		assessed[i] = g.ratio(mean) * sale[i]
	}
	return build(assessed, sale)
}
