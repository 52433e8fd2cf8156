// Package quantmath provides the portfolio arithmetic shared by the engine:
// weighted return, volatility aggregation, Sharpe ratio and concentration
// measures. Pure functions only, no domain types.
package quantmath

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RiskFreeRate is the annualized risk-free rate in percent used across the
// engine (approximates short-term treasury yield).
const RiskFreeRate = 4.5

// PortfolioExpectedReturn returns the weighted expected return.
// weights are fractions summing to ~1, returns are percentages.
func PortfolioExpectedReturn(weights, returns []float64) float64 {
	if len(weights) != len(returns) || len(weights) == 0 {
		return 0
	}
	var total float64
	for i, w := range weights {
		total += w * returns[i]
	}
	return total
}

// PortfolioRisk returns annualized portfolio volatility in percent given
// per-asset volatilities (percent) and the pairwise correlation matrix.
// Variance = sum_i sum_j w_i w_j sigma_i sigma_j rho_ij.
func PortfolioRisk(weights, risks []float64, correlation [][]float64) float64 {
	n := len(weights)
	if n == 0 || len(risks) != n || len(correlation) != n {
		return 0
	}

	var variance float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			rho := 1.0
			if i != j {
				rho = correlation[i][j]
			}
			variance += weights[i] * weights[j] * risks[i] * risks[j] * rho
		}
	}
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}

// SharpeRatio computes (return - riskFree) / risk; zero when risk is zero.
func SharpeRatio(expectedReturn, risk, riskFree float64) float64 {
	if risk == 0 {
		return 0
	}
	return (expectedReturn - riskFree) / risk
}

// HerfindahlIndex is the sum of squared weights: 1.0 for a single holding,
// 1/n for an even n-way split.
func HerfindahlIndex(weights []float64) float64 {
	var hhi float64
	for _, w := range weights {
		hhi += w * w
	}
	return hhi
}

// AverageCorrelation is the mean of the off-diagonal entries of a square
// correlation matrix. Returns 0 for matrices smaller than 2x2.
func AverageCorrelation(correlation [][]float64) float64 {
	n := len(correlation)
	if n < 2 {
		return 0
	}

	var sum float64
	var count int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sum += correlation[i][j]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Mean is the arithmetic mean of values (0 for an empty slice).
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Spread is the distance between the largest and smallest value.
func Spread(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	return maxV - minV
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
