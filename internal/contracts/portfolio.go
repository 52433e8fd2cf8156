package contracts

import "math"

// Portfolio is one optimized allocation produced by a single strategy.
// ⭐ Contract: Allocations are percentage points and must sum to 100 ± 0.1.
type Portfolio struct {
	Allocations        map[string]float64 `json:"allocations"`
	ExpectedReturn     float64            `json:"expected_return"` // percent
	Risk               float64            `json:"risk"`            // percent, annualized
	SharpeRatio        float64            `json:"sharpe_ratio"`
	ConstraintsApplied bool               `json:"constraints_applied"`
}

// AllocationSumTolerance bounds the accepted drift of the allocation sum from 100.
const AllocationSumTolerance = 0.1

// TotalAllocation returns the sum of all allocation percentages.
func (p *Portfolio) TotalAllocation() float64 {
	total := 0.0
	for _, w := range p.Allocations {
		total += w
	}
	return total
}

// SumsToHundred reports whether allocations respect the 100 ± tolerance invariant.
func (p *Portfolio) SumsToHundred() bool {
	return math.Abs(p.TotalAllocation()-100) <= AllocationSumTolerance
}

// Allocation returns the percentage allocated to a symbol (0 when absent).
func (p *Portfolio) Allocation(symbol string) float64 {
	return p.Allocations[symbol]
}

// ReturnCapAdjustment records one expected-return clamp applied before
// optimization. Returned to the caller for transparency, never silent.
type ReturnCapAdjustment struct {
	Symbol         string  `json:"symbol"`
	AssetClass     string  `json:"asset_class"`
	OriginalReturn float64 `json:"original_return"`
	CappedReturn   float64 `json:"capped_return"`
}

// OptimizationBundle is the full result of one engine run.
type OptimizationBundle struct {
	Optimal              *Portfolio            `json:"optimal_portfolio"`
	MinimumVariance      *Portfolio            `json:"minimum_variance_portfolio"`
	MaximumReturn        *Portfolio            `json:"maximum_return_portfolio"`
	Validation           *ValidationResult     `json:"validation"`
	Quality              *QualityScore         `json:"portfolio_quality"`
	ReturnCapAdjustments []ReturnCapAdjustment `json:"return_cap_adjustments"`
	Trace                []TraceEvent          `json:"trace,omitempty"`
}

// Portfolios returns the three portfolios in a fixed order for iteration.
func (b *OptimizationBundle) Portfolios() map[string]*Portfolio {
	return map[string]*Portfolio{
		"optimal":          b.Optimal,
		"minimum_variance": b.MinimumVariance,
		"maximum_return":   b.MaximumReturn,
	}
}
