package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/pkg/quantmath"
)

// Integrity failures are the one error category that must propagate: a
// portfolio that fails these checks must never be displayed.
var (
	ErrAllocationSum        = errors.New("allocations do not sum to 100")
	ErrDuplicateAllocations = errors.New("duplicate allocations for assets with distinct profiles")
)

// CheckIntegrity verifies the blocking allocation invariants for one
// portfolio: the allocation sum is within tolerance of 100, and assets with
// numerically distinct (return, risk, sharpe) signatures hold distinct
// allocations at 1-decimal precision. A duplicate here means the constraint
// enforcer's uniqueness defense failed silently.
//
// Zero allocations are exempt from the duplicate check: corner solutions
// legitimately zero out every non-selected asset.
func CheckIntegrity(p *contracts.Portfolio, assets []contracts.Asset) error {
	total := p.TotalAllocation()
	if math.Abs(total-100) > contracts.AllocationSumTolerance {
		return fmt.Errorf("%w: sum is %.4f", ErrAllocationSum, total)
	}

	if !distinctProfiles(assets) {
		return nil
	}

	seen := make(map[int64]string, len(assets))
	for _, a := range assets {
		alloc := p.Allocation(a.Symbol)
		if alloc == 0 {
			continue
		}
		key := int64(math.Round(alloc * 10)) // 1-decimal buckets
		if other, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s and %s both at %.1f%%",
				ErrDuplicateAllocations, other, a.Symbol, alloc)
		}
		seen[key] = a.Symbol
	}
	return nil
}

// distinctProfiles reports whether every asset pair differs in at least one
// of (expected return, risk, sharpe). Identical assets are allowed to share
// an allocation, so the duplicate check only applies when all profiles are
// distinct.
func distinctProfiles(assets []contracts.Asset) bool {
	type signature struct {
		ret, risk, sharpe float64
	}
	seen := make(map[signature]struct{}, len(assets))
	for _, a := range assets {
		sig := signature{
			ret:    a.ExpectedReturn,
			risk:   a.Risk,
			sharpe: quantmath.SharpeRatio(a.ExpectedReturn, a.Risk, quantmath.RiskFreeRate),
		}
		if _, dup := seen[sig]; dup {
			return false
		}
		seen[sig] = struct{}{}
	}
	return true
}
