package fit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	apperrors "github.com/formatlab/sacfit/internal/errors"
)

// ConfidenceFactor is the two-sided z-value for a 95% interval. The reference
// behavior hardcodes the large-sample normal approximation rather than a
// Student-t quantile keyed to the degrees of freedom.
const ConfidenceFactor = 1.96

// DefaultSteps is the number of evenly spaced sample points generated across
// the output domain when not overridden.
const DefaultSteps = 100

// Result holds the optimal parameters of the log model, the parameter
// covariance, and the sampled fitted curve with its confidence envelope.
// All sample slices are parallel and immutable once returned.
type Result struct {
	// A and B are the optimal parameters of y = A·ln(x) + B.
	A float64
	B float64
	// Covariance is the 2×2 parameter covariance matrix, row-major
	// [[var(a), cov(a,b)], [cov(a,b), var(b)]].
	Covariance [2][2]float64
	// XSamples are the evenly spaced sample points across the fit domain.
	XSamples []float64
	// YFit is the fitted curve evaluated at XSamples.
	YFit []float64
	// YLower and YUpper bound the 95% confidence band around YFit.
	YLower []float64
	YUpper []float64
}

// Eval evaluates the fitted model at x.
func (r *Result) Eval(x float64) float64 {
	return r.A*math.Log(x) + r.B
}

// Option configures a Fit call.
type Option func(*options)

type options struct {
	minX, maxX float64
	hasDomain  bool
	steps      int
}

// WithDomain sets the output sample domain [minX, maxX]. Both bounds must be
// positive; the default is [min(xs), max(xs)].
func WithDomain(minX, maxX float64) Option {
	return func(o *options) {
		o.minX, o.maxX = minX, maxX
		o.hasDomain = true
	}
}

// WithSteps sets the number of sample points across the domain.
func WithSteps(steps int) Option {
	return func(o *options) { o.steps = steps }
}

// Fit solves the ordinary least-squares problem for y = a·ln(x) + b over
// (xs, ys) and returns the fitted curve sampled across the domain together
// with its 95% confidence band.
//
// Every x must be strictly positive (DomainError otherwise), and at least two
// distinct x values are required to identify the two parameters
// (UnderdeterminedFitError). A singular design matrix surfaces as a
// FitConvergenceError. There is no retry policy: failures are final.
func Fit(xs, ys []float64, opts ...Option) (*Result, error) {
	if len(xs) != len(ys) {
		return nil, apperrors.NewInvalidInputError("", "x and y lengths differ (%d vs %d)", len(xs), len(ys))
	}
	if err := validateDomain(xs); err != nil {
		return nil, err
	}
	if distinct := countDistinct(xs); distinct < 2 {
		return nil, apperrors.UnderdeterminedFitError{Distinct: distinct}
	}

	o := options{steps: DefaultSteps}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasDomain {
		o.minX, o.maxX = minMax(xs)
	}
	if o.minX <= 0 {
		return nil, apperrors.DomainError{Value: o.minX, Message: "fit domain minimum must be positive"}
	}
	if o.maxX < o.minX {
		return nil, apperrors.DomainError{Value: o.maxX, Message: "fit domain maximum must not be below the minimum"}
	}
	if o.steps <= 0 {
		return nil, apperrors.NewInvalidInputError("", "steps must be positive, got %d", o.steps)
	}

	n := len(xs)

	// Design matrix: one row [ln x, 1] per observation.
	design := mat.NewDense(n, 2, nil)
	yVec := mat.NewVecDense(n, nil)
	for i := range xs {
		design.Set(i, 0, math.Log(xs[i]))
		design.Set(i, 1, 1)
		yVec.SetVec(i, ys[i])
	}

	var qr mat.QR
	qr.Factorize(design)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return nil, apperrors.FitConvergenceError{Cause: err}
	}
	a, b := beta.AtVec(0), beta.AtVec(1)

	// Residual variance s² = RSS / (n - 2); an exactly determined system
	// (n == 2) has zero residual degrees of freedom and zero variance.
	rss := 0.0
	for i := range xs {
		r := ys[i] - (a*math.Log(xs[i]) + b)
		rss += r * r
	}
	var sigma2 float64
	if n > 2 {
		sigma2 = rss / float64(n-2)
	}

	// Σ = s² (XᵀX)⁻¹.
	var gram mat.Dense
	gram.Mul(design.T(), design)
	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return nil, apperrors.FitConvergenceError{Cause: err}
	}
	var cov [2][2]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			cov[i][j] = sigma2 * gramInv.At(i, j)
		}
	}
	if cov[0][0] < 0 || cov[1][1] < 0 {
		return nil, apperrors.FitConvergenceError{}
	}

	res := &Result{
		A:          a,
		B:          b,
		Covariance: cov,
		XSamples:   linspace(o.minX, o.maxX, o.steps),
	}
	res.YFit = make([]float64, o.steps)
	res.YLower = make([]float64, o.steps)
	res.YUpper = make([]float64, o.steps)

	for i, x := range res.XSamples {
		lx := math.Log(x)
		y := a*lx + b
		// Var(ŷ) = J Σ Jᵀ with J = [ln x, 1].
		variance := lx*lx*cov[0][0] + 2*lx*cov[0][1] + cov[1][1]
		if variance < 0 {
			// Rounding can push an exact-fit variance a hair below zero.
			if variance < -1e-9 {
				return nil, apperrors.FitConvergenceError{}
			}
			variance = 0
		}
		half := ConfidenceFactor * math.Sqrt(variance)
		res.YFit[i] = y
		res.YLower[i] = y - half
		res.YUpper[i] = y + half
	}

	return res, nil
}

// validateDomain rejects any non-positive x before the log transform.
func validateDomain(xs []float64) error {
	for _, x := range xs {
		if x <= 0 {
			return apperrors.DomainError{Value: x, Message: "x values must be positive for the log model"}
		}
	}
	return nil
}

func countDistinct(xs []float64) int {
	seen := make(map[float64]struct{}, len(xs))
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	return len(seen)
}

func minMax(xs []float64) (lo, hi float64) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

// linspace returns steps evenly spaced points from lo to hi inclusive.
func linspace(lo, hi float64, steps int) []float64 {
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = lo
		return out
	}
	d := (hi - lo) / float64(steps-1)
	for i := range out {
		out[i] = lo + float64(i)*d
	}
	out[steps-1] = hi
	return out
}
