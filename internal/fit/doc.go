// Package fit fits the saturating logarithmic model y = a·ln(x) + b to
// accumulation-curve data by ordinary least squares, and propagates the
// parameter covariance into a pointwise 95% confidence band on the fitted
// curve.
//
// The model is linear in its parameters after the log transform, so the
// normal equations are solved directly (QR factorization of the design
// matrix) and the covariance is the residual-variance-scaled inverse of the
// Gram matrix. The band uses the Jacobian J(x) = [ln x, 1]:
//
//	Var(ŷ(x)) = J(x) Σ J(x)ᵀ
//
// evaluated independently at each sample point, with a fixed two-sided 1.96
// normal-approximation factor.
package fit
