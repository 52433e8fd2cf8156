// Package optimizer holds the three allocation strategies: tangency
// (maximum Sharpe), global minimum variance, and the maximum-return corner
// solution. Each strategy returns raw weight fractions; portfolio metric
// assembly happens in the engine.
package optimizer

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/folioquant/backend/internal/constraints"
	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/internal/linalg"
)

// Method identifies which path produced a weight vector.
type Method string

const (
	MethodAnalytic        Method = "analytic"
	MethodCorner          Method = "corner"
	MethodEqualFallback   Method = "equal_weight_fallback"
	MethodInverseRiskFall Method = "inverse_risk_fallback"
)

// Result is the outcome of one strategy. Degradation is explicit data, not
// an error: a degraded result is still a defined, usable portfolio.
type Result struct {
	Weights            []float64
	Method             Method
	Degraded           bool
	ConstraintsApplied bool
}

// solveLinear computes inv(cov) * rhs and reports whether the solution is
// usable as a weight basis: the inverse must pass the residual check (a
// skipped pivot leaves a finite but useless pseudo-inverse) and the weights
// must carry positive mass after flooring negatives.
func solveLinear(cov *mat.Dense, rhs []float64) ([]float64, bool) {
	inv, err := linalg.Invert(cov)
	if err != nil || linalg.NearSingular(cov, inv) {
		return nil, false
	}

	w := linalg.MulVec(inv, rhs)

	// Long-only: floor negative weights, then check remaining mass.
	var sum float64
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		if v < 0 {
			w[i] = 0
		}
		sum += w[i]
	}
	if sum <= 1e-12 {
		return nil, false
	}
	for i := range w {
		w[i] /= sum
	}
	return w, true
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}

func inverseRiskWeights(assets []contracts.Asset) []float64 {
	w := make([]float64, len(assets))
	var sum float64
	for i, a := range assets {
		w[i] = 1.0 / a.Risk
		sum += w[i]
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

func applyConstraints(r *Result, assets []contracts.Asset, enforcer *constraints.Enforcer) {
	if enforcer == nil {
		return
	}
	adjusted, applied := enforcer.Apply(r.Weights, assets)
	r.Weights = adjusted
	r.ConstraintsApplied = applied
}

func expectedReturns(assets []contracts.Asset) []float64 {
	mu := make([]float64, len(assets))
	for i, a := range assets {
		mu[i] = a.ExpectedReturn
	}
	return mu
}
