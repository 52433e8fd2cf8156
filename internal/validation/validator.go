// Package validation sanity-checks the three optimized portfolios against
// each other and against the correlation tier, and verifies allocation
// integrity before results are handed to any caller.
package validation

import (
	"fmt"
	"math"

	"github.com/folioquant/backend/internal/contracts"
)

// Correlation gates. Above the critical threshold the frontier comparison is
// unusable; the engine still returns all three portfolios.
const (
	corrCritical = 0.75
	corrHigh     = 0.60
	corrModerate = 0.50
)

// Cross-portfolio tolerances. The constraint system is expected to perturb
// the pure analytic optimum, so deviations inside these bounds are normal.
const (
	riskTolerance   = 0.5 // percentage points
	returnTolerance = 0.5 // percentage points
	sharpeTolerance = 0.1
)

// Validate runs the non-blocking cross-portfolio checks and the correlation
// tier gates. Only the extreme correlation gate produces a critical error.
func Validate(optimal, minVariance, maxReturn *contracts.Portfolio, quality *contracts.QualityScore) *contracts.ValidationResult {
	result := &contracts.ValidationResult{CanShowFrontier: true}

	avgCorr := quality.AvgCorrelation
	switch {
	case avgCorr > corrCritical:
		result.AddCritical("correlation_extreme", fmt.Sprintf(
			"Average correlation %.0f%% exceeds %.0f%%; the efficient frontier comparison is not meaningful for this asset set.",
			avgCorr*100, corrCritical*100))
	case avgCorr > corrHigh:
		result.AddWarning(contracts.SeverityHigh, "correlation_high", fmt.Sprintf(
			"Average correlation %.0f%% is high; covariance stabilization was applied to the optimal portfolio.", avgCorr*100))
	case avgCorr >= corrModerate:
		result.AddWarning(contracts.SeverityMedium, "correlation_moderate", fmt.Sprintf(
			"Average correlation %.0f%% is moderate; diversification benefit is reduced.", avgCorr*100))
	}

	risks := []float64{optimal.Risk, minVariance.Risk, maxReturn.Risk}
	returns := []float64{optimal.ExpectedReturn, minVariance.ExpectedReturn, maxReturn.ExpectedReturn}
	sharpes := []float64{optimal.SharpeRatio, minVariance.SharpeRatio, maxReturn.SharpeRatio}

	if minVariance.Risk > minOf(risks)+riskTolerance {
		result.AddWarning(contracts.SeverityInfo, "risk_ordering", fmt.Sprintf(
			"Minimum-variance portfolio risk %.2f%% is not the lowest across strategies (min %.2f%%); constraints perturbed the analytic optimum.",
			minVariance.Risk, minOf(risks)))
	}
	if maxReturn.ExpectedReturn < maxOf(returns)-returnTolerance {
		result.AddWarning(contracts.SeverityInfo, "return_ordering", fmt.Sprintf(
			"Maximum-return portfolio return %.2f%% is below the best strategy return %.2f%%.",
			maxReturn.ExpectedReturn, maxOf(returns)))
	}
	if optimal.SharpeRatio < maxOf(sharpes)-sharpeTolerance {
		result.AddWarning(contracts.SeverityInfo, "sharpe_ordering", fmt.Sprintf(
			"Optimal portfolio Sharpe %.2f is below the best strategy Sharpe %.2f; constraints perturbed the tangency solution.",
			optimal.SharpeRatio, maxOf(sharpes)))
	}

	return result
}

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		m = math.Max(m, v)
	}
	return m
}
