package engine

import (
	"github.com/folioquant/backend/internal/contracts"
)

// applyReturnCaps clamps expected returns to their asset-class ceilings
// before optimization. Overly optimistic inputs (a bond fund promising 15%)
// would otherwise dominate every strategy. Adjustments are recorded and
// returned to the caller: transparency, not silent correction.
func (e *Engine) applyReturnCaps(assets []contracts.Asset) ([]contracts.Asset, []contracts.ReturnCapAdjustment) {
	pol := e.estimator.Policy()

	capped := make([]contracts.Asset, len(assets))
	copy(capped, assets)

	adjustments := make([]contracts.ReturnCapAdjustment, 0)
	for i, a := range capped {
		class := pol.ClassifyClass(a)
		ceiling, ok := pol.ReturnCap(class)
		if !ok || a.ExpectedReturn <= ceiling {
			continue
		}

		adjustments = append(adjustments, contracts.ReturnCapAdjustment{
			Symbol:         a.Symbol,
			AssetClass:     string(class),
			OriginalReturn: a.ExpectedReturn,
			CappedReturn:   ceiling,
		})
		capped[i].ExpectedReturn = ceiling

		e.log.WithFields(map[string]interface{}{
			"symbol":   a.Symbol,
			"class":    class,
			"original": a.ExpectedReturn,
			"capped":   ceiling,
		}).Debug("Expected return capped")
	}

	return capped, adjustments
}
