// Package constraints applies realism bounds to the analytic weight vectors
// produced by the optimizers: minimum position sizes, a single-asset cap with
// merit-ranked redistribution, and a defense against spurious duplicate
// allocations.
package constraints

import (
	"math"
	"sort"

	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/pkg/quantmath"
)

const (
	// Minimum per-asset allocation: small books get a bigger floor.
	minAllocationSmallBook = 0.10 // N <= 4
	minAllocationLargeBook = 0.08

	smallBookSize = 4

	// Cap-and-redistribute is bounded; redistribution converges in a few
	// rounds for realistic inputs.
	maxRedistributeRounds = 15

	// Weight sums within this tolerance of 1 are left as-is.
	sumTolerance = 1e-4

	// Uniqueness defense parameters (see enforceUniqueness).
	duplicatePrecision = 1e4 // 4 decimal places
	nudgeStep          = 0.003
)

// Enforcer applies allocation bounds for a fixed single-asset cap.
type Enforcer struct {
	maxSingleAsset float64
}

// NewEnforcer creates an enforcer. Caps at or above 1.0 disable the cap phase.
func NewEnforcer(maxSingleAsset float64) *Enforcer {
	return &Enforcer{maxSingleAsset: maxSingleAsset}
}

// MinAllocationFor returns the per-asset floor for a book of n assets.
func MinAllocationFor(n int) float64 {
	if n <= smallBookSize {
		return minAllocationSmallBook
	}
	return minAllocationLargeBook
}

// Apply bounds the raw optimizer weights and reports whether anything moved.
// Phases: floor small weights, cap-and-redistribute by merit, force distinct
// allocations for distinct assets, then clamp and renormalize exactly.
func (e *Enforcer) Apply(raw []float64, assets []contracts.Asset) ([]float64, bool) {
	n := len(raw)
	if n == 0 || n != len(assets) {
		return raw, false
	}

	weights := make([]float64, n)
	copy(weights, raw)

	minAlloc := MinAllocationFor(n)

	// Phase 1: floor.
	for i, w := range weights {
		if w < minAlloc {
			weights[i] = minAlloc
		}
	}
	normalize(weights)

	// Phase 2: cap and redistribute by merit.
	if e.maxSingleAsset < 1.0 {
		merits := meritScores(assets)
		for round := 0; round < maxRedistributeRounds; round++ {
			if !e.redistributeOnce(weights, merits) {
				break
			}
			normalize(weights)
		}
	}

	// Phase 3: uniqueness defense.
	enforceUniqueness(weights, assets)

	// Final: clamp and exact renormalization.
	for i, w := range weights {
		if w < 0 {
			weights[i] = 0
		}
	}
	normalize(weights)

	return weights, changed(raw, weights)
}

// redistributeOnce clips weights above the cap and spreads the excess among
// below-cap assets proportionally to merit. Reports whether any clip happened.
func (e *Enforcer) redistributeOnce(weights, merits []float64) bool {
	var excess float64
	var meritBelow float64
	over := false

	for i, w := range weights {
		if w > e.maxSingleAsset {
			excess += w - e.maxSingleAsset
			weights[i] = e.maxSingleAsset
			over = true
		}
	}
	if !over {
		return false
	}

	for i, w := range weights {
		if w < e.maxSingleAsset {
			meritBelow += merits[i]
		}
	}
	if meritBelow <= 0 {
		// Nothing can absorb the excess; normalization will spread it.
		return true
	}

	for i, w := range weights {
		if w < e.maxSingleAsset {
			weights[i] = w + excess*(merits[i]/meritBelow)
		}
	}
	return true
}

// meritScores ranks assets for redistribution. Sharpe dominates, expected
// return is the secondary term, and the index term breaks exact ties
// deterministically instead of randomly.
func meritScores(assets []contracts.Asset) []float64 {
	merits := make([]float64, len(assets))
	for i, a := range assets {
		sharpe := quantmath.SharpeRatio(a.ExpectedReturn, a.Risk, quantmath.RiskFreeRate)
		merits[i] = math.Max(0.01, sharpe)*10000 +
			a.ExpectedReturn*100 +
			float64(i*i)*0.1
	}
	return merits
}

// enforceUniqueness nudges apart groups of assets that ended up with an
// identical allocation (at 4-decimal precision) despite having different
// risk/return profiles. Genuinely identical assets are allowed to collapse
// to equal weights, so those groups are left alone.
func enforceUniqueness(weights []float64, assets []contracts.Asset) {
	groups := make(map[int64][]int)
	for i, w := range weights {
		key := int64(math.Round(w * duplicatePrecision))
		groups[key] = append(groups[key], i)
	}

	for _, idx := range groups {
		if len(idx) < 2 || identicalProfiles(assets, idx) {
			continue
		}

		// Rank group members by a simplified merit, best first.
		sort.SliceStable(idx, func(a, b int) bool {
			sa := quantmath.SharpeRatio(assets[idx[a]].ExpectedReturn, assets[idx[a]].Risk, quantmath.RiskFreeRate)
			sb := quantmath.SharpeRatio(assets[idx[b]].ExpectedReturn, assets[idx[b]].Risk, quantmath.RiskFreeRate)
			return sa > sb
		})

		// Alternating micro-adjustments scaled by rank position keep the
		// group's total roughly stable; final normalization absorbs drift.
		for rank, i := range idx {
			delta := nudgeStep * float64(rank+1)
			if rank%2 == 1 {
				delta = -delta
			}
			weights[i] += delta
		}
	}
}

func identicalProfiles(assets []contracts.Asset, idx []int) bool {
	first := assets[idx[0]]
	for _, i := range idx[1:] {
		if assets[i].ExpectedReturn != first.ExpectedReturn || assets[i].Risk != first.Risk {
			return false
		}
	}
	return true
}

func normalize(weights []float64) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 || math.Abs(sum-1) <= sumTolerance {
		return
	}
	for i := range weights {
		weights[i] /= sum
	}
}

func changed(before, after []float64) bool {
	for i := range before {
		if math.Abs(before[i]-after[i]) > 1e-9 {
			return true
		}
	}
	return false
}
