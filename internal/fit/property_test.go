package fit

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestExactFitRecovery_PropertyBased verifies that for any parameters (a, b)
// and any set of distinct positive x values, fitting noiseless data recovers
// the parameters and collapses the confidence band.
func TestExactFitRecovery_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("noiseless data recovers (a, b)", prop.ForAll(
		func(a, b float64, seed int) bool {
			xs := []float64{1, 2, 5, 13, 34, 89}
			// Shift the grid by the seed so successive runs exercise
			// different log spacings.
			for i := range xs {
				xs[i] += float64(seed % 17)
			}
			ys := make([]float64, len(xs))
			for i, x := range xs {
				ys[i] = a*math.Log(x) + b
			}

			res, err := Fit(xs, ys)
			if err != nil {
				return false
			}
			scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
			return math.Abs(res.A-a) < 1e-6*scale && math.Abs(res.B-b) < 1e-6*scale
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
		gen.IntRange(0, 1000),
	))

	properties.Property("band brackets the fitted curve", prop.ForAll(
		func(noise []float64) bool {
			xs := []float64{1, 2, 4, 8, 16, 32, 64, 128}
			ys := make([]float64, len(xs))
			for i, x := range xs {
				ys[i] = math.Log(x)
				if i < len(noise) {
					ys[i] += noise[i]
				}
			}
			res, err := Fit(xs, ys)
			if err != nil {
				return false
			}
			for i := range res.XSamples {
				if res.YLower[i] > res.YFit[i] || res.YFit[i] > res.YUpper[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(8, gen.Float64Range(-0.5, 0.5)),
	))

	properties.TestingRun(t)
}
