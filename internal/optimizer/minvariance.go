package optimizer

import (
	"gonum.org/v1/gonum/mat"

	"github.com/folioquant/backend/internal/constraints"
	"github.com/folioquant/backend/internal/contracts"
)

// MinVariance computes the global minimum-variance portfolio: weights
// proportional to inv(cov) * 1. On a degenerate inverse it degrades to
// inverse-risk weighting (w_i proportional to 1/sigma_i); constraints are
// applied either way.
func MinVariance(assets []contracts.Asset, cov *mat.Dense, enforcer *constraints.Enforcer) Result {
	n := len(assets)
	if n == 1 {
		return Result{Weights: []float64{1}, Method: MethodAnalytic}
	}

	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}

	result := Result{Method: MethodAnalytic}
	if w, ok := solveLinear(cov, ones); ok {
		result.Weights = w
	} else {
		result.Weights = inverseRiskWeights(assets)
		result.Method = MethodInverseRiskFall
		result.Degraded = true
	}

	applyConstraints(&result, assets, enforcer)
	return result
}
