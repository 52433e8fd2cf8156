package optimizer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/folioquant/backend/internal/constraints"
	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/pkg/quantmath"
)

// MaxSharpe computes the tangency portfolio: weights proportional to
// inv(cov) * (mu - rf). Negative raw weights are floored to zero before
// renormalization. When the inverse is unusable the strategy degrades to
// equal weighting rather than failing the run.
//
// Constraints are skipped for a single asset (a one-asset book is
// definitionally unconstrained by allocation caps).
func MaxSharpe(assets []contracts.Asset, cov *mat.Dense, enforcer *constraints.Enforcer) Result {
	n := len(assets)
	if n == 1 {
		return Result{Weights: []float64{1}, Method: MethodAnalytic}
	}

	excess := expectedReturns(assets)
	for i := range excess {
		excess[i] -= quantmath.RiskFreeRate
	}

	result := Result{Method: MethodAnalytic}
	if w, ok := solveLinear(cov, excess); ok {
		result.Weights = w
	} else {
		result.Weights = equalWeights(n)
		result.Method = MethodEqualFallback
		result.Degraded = true
	}

	applyConstraints(&result, assets, enforcer)
	return result
}
