package optimizer

import "github.com/folioquant/backend/internal/contracts"

// MaxReturn is a corner solution: 100% to the single asset with the highest
// expected return, tie-broken toward the higher-risk asset. No constraint
// pass runs here; callers depend on the single-asset concentration.
func MaxReturn(assets []contracts.Asset) Result {
	best := 0
	for i := 1; i < len(assets); i++ {
		a, b := assets[i], assets[best]
		if a.ExpectedReturn > b.ExpectedReturn ||
			(a.ExpectedReturn == b.ExpectedReturn && a.Risk > b.Risk) {
			best = i
		}
	}

	w := make([]float64, len(assets))
	w[best] = 1
	return Result{Weights: w, Method: MethodCorner}
}
