// Package correlation estimates pairwise asset correlations from coarse
// metadata (asset type, sector, beta) and assembles the covariance matrix
// the optimizers consume. No price history is involved: correlations come
// from an empirical base table keyed by asset-type pairs.
package correlation

import (
	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/internal/policy"
	"github.com/folioquant/backend/pkg/quantmath"
)

// Estimated correlations are clamped to this range. The lower bound keeps
// strongly negative guesses from overstating hedging benefit; the upper bound
// keeps the covariance matrix away from exact collinearity.
const (
	MinCorrelation = -0.30
	MaxCorrelation = 0.95
)

// Sector match and beta-similarity perturbations on top of the base table.
const (
	sectorMatchBoost   = 0.20
	betaSimilarBoost   = 0.05
	betaSimilarityBand = 0.3
)

// Estimator derives pairwise correlations for a fixed classification policy.
type Estimator struct {
	policy *policy.Policy
}

// NewEstimator creates an estimator. A nil policy falls back to the default.
func NewEstimator(p *policy.Policy) *Estimator {
	if p == nil {
		p = policy.Default()
	}
	return &Estimator{policy: p}
}

// Policy exposes the classification policy in use.
func (e *Estimator) Policy() *policy.Policy {
	return e.policy
}

// Pairwise estimates the correlation between two distinct assets.
// Base value from the type-pair table, +0.20 when both are stocks in the same
// known sector, +0.05 when betas differ by less than 0.3, clamped to
// [MinCorrelation, MaxCorrelation]. The diagonal is not produced here.
func (e *Estimator) Pairwise(a, b contracts.Asset) float64 {
	typeA := e.policy.Classify(a)
	typeB := e.policy.Classify(b)

	corr := e.policy.BaseCorrelation(typeA, typeB)

	if !typeA.IsFund() && !typeB.IsFund() &&
		a.Sector == b.Sector && a.Sector != contracts.SectorUnknown {
		corr += sectorMatchBoost
	}

	deltaBeta := a.Beta - b.Beta
	if deltaBeta < 0 {
		deltaBeta = -deltaBeta
	}
	if deltaBeta < betaSimilarityBand {
		corr += betaSimilarBoost
	}

	return quantmath.Clamp(corr, MinCorrelation, MaxCorrelation)
}

// Matrix builds the full n x n correlation matrix with a unit diagonal.
func (e *Estimator) Matrix(assets []contracts.Asset) [][]float64 {
	n := len(assets)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1.0
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := e.Pairwise(assets[i], assets[j])
			m[i][j] = c
			m[j][i] = c
		}
	}
	return m
}
