package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"

	"github.com/folioquant/backend/internal/constraints"
	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/internal/correlation"
)

func twoAssetBook() ([]contracts.Asset, *mat.Dense) {
	assets := []contracts.Asset{
		{Symbol: "SPY", ExpectedReturn: 10, Risk: 15, Beta: 1.0},
		{Symbol: "AGG", ExpectedReturn: 5, Risk: 5, Beta: 0.1},
	}
	cov := correlation.NewEstimator(nil).Covariance(assets)
	return assets, cov
}

func assertWeights(t *testing.T, w []float64) {
	t.Helper()
	var sum float64
	for i, v := range w {
		assert.GreaterOrEqual(t, v, 0.0, "weight %d negative", i)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-6, "weights must sum to 1")
}

func TestMaxSharpe_TwoAssets(t *testing.T) {
	assets, cov := twoAssetBook()

	r := MaxSharpe(assets, cov, nil)

	assert.Equal(t, MethodAnalytic, r.Method)
	assert.False(t, r.Degraded)
	assertWeights(t, r.Weights)
	// Both assets have positive excess return and low correlation: both held.
	assert.Greater(t, r.Weights[0], 0.0)
	assert.Greater(t, r.Weights[1], 0.0)
}

func TestMaxSharpe_SingleAsset(t *testing.T) {
	assets := []contracts.Asset{{Symbol: "ONLY", ExpectedReturn: 10, Risk: 15}}
	cov := correlation.NewEstimator(nil).Covariance(assets)

	r := MaxSharpe(assets, cov, constraints.NewEnforcer(0.40))

	assert.Equal(t, []float64{1}, r.Weights)
	assert.False(t, r.ConstraintsApplied, "single asset skips constraints")
}

func TestMaxSharpe_SingularFallsBackToEqual(t *testing.T) {
	// Two clones produce a rank-1 covariance matrix.
	assets := []contracts.Asset{
		{Symbol: "A", ExpectedReturn: 10, Risk: 15, Beta: 1.0},
		{Symbol: "B", ExpectedReturn: 10, Risk: 15, Beta: 1.0},
	}
	cov := mat.NewDense(2, 2, []float64{
		0.0225, 0.0225,
		0.0225, 0.0225,
	})

	r := MaxSharpe(assets, cov, nil)

	assertWeights(t, r.Weights)
	assert.True(t, r.Degraded, "singular covariance must degrade")
	assert.Equal(t, MethodEqualFallback, r.Method)
	assert.InDelta(t, 0.5, r.Weights[0], 1e-9)
	assert.InDelta(t, 0.5, r.Weights[1], 1e-9)
}

func TestMinVariance_PrefersLowRisk(t *testing.T) {
	assets, cov := twoAssetBook()

	r := MinVariance(assets, cov, nil)

	assert.Equal(t, MethodAnalytic, r.Method)
	assertWeights(t, r.Weights)
	// The 5%-vol bond fund dominates the minimum-variance point.
	assert.Greater(t, r.Weights[1], r.Weights[0])
}

func TestMinVariance_FallbackIsInverseRisk(t *testing.T) {
	assets := []contracts.Asset{
		{Symbol: "A", ExpectedReturn: 10, Risk: 10},
		{Symbol: "B", ExpectedReturn: 10, Risk: 30},
	}
	// Exactly singular.
	cov := mat.NewDense(2, 2, []float64{
		0.01, 0.03,
		0.03, 0.09,
	})

	r := MinVariance(assets, cov, nil)

	assertWeights(t, r.Weights)
	assert.True(t, r.Degraded, "singular covariance must degrade")
	assert.Equal(t, MethodInverseRiskFall, r.Method)
	// 1/10 : 1/30 normalizes to 0.75 : 0.25
	assert.InDelta(t, 0.75, r.Weights[0], 1e-9)
	assert.InDelta(t, 0.25, r.Weights[1], 1e-9)
}

func TestMinVariance_SingleAsset(t *testing.T) {
	assets := []contracts.Asset{{Symbol: "ONLY", ExpectedReturn: 10, Risk: 15}}
	cov := correlation.NewEstimator(nil).Covariance(assets)

	r := MinVariance(assets, cov, constraints.NewEnforcer(0.40))
	assert.Equal(t, []float64{1}, r.Weights)
}

func TestMaxReturn_CornerSolution(t *testing.T) {
	assets := []contracts.Asset{
		{Symbol: "LOW", ExpectedReturn: 6, Risk: 10},
		{Symbol: "HIGH", ExpectedReturn: 18, Risk: 40},
		{Symbol: "MID", ExpectedReturn: 11, Risk: 20},
	}

	r := MaxReturn(assets)

	assert.Equal(t, MethodCorner, r.Method)
	assert.Equal(t, []float64{0, 1, 0}, r.Weights)
	assert.False(t, r.ConstraintsApplied)
}

func TestMaxReturn_TieBreaksTowardHigherRisk(t *testing.T) {
	assets := []contracts.Asset{
		{Symbol: "CALM", ExpectedReturn: 12, Risk: 18},
		{Symbol: "WILD", ExpectedReturn: 12, Risk: 35},
	}

	r := MaxReturn(assets)
	assert.Equal(t, []float64{0, 1}, r.Weights)
}

func TestMaxSharpe_ConstraintsApplied(t *testing.T) {
	assets := []contracts.Asset{
		{Symbol: "A", ExpectedReturn: 20, Risk: 12, Beta: 1.4, Sector: "Technology", PERatio: 40, MarketCap: "900B"},
		{Symbol: "B", ExpectedReturn: 6, Risk: 8, Beta: 0.5, Sector: "Utilities", PERatio: 15, MarketCap: "60B"},
		{Symbol: "C", ExpectedReturn: 7, Risk: 9, Beta: 0.6, Sector: "Staples", PERatio: 18, MarketCap: "120B"},
	}
	cov := correlation.NewEstimator(nil).Covariance(assets)

	r := MaxSharpe(assets, cov, constraints.NewEnforcer(0.40))

	assertWeights(t, r.Weights)
	for i, w := range r.Weights {
		assert.LessOrEqual(t, w, 0.42, "weight %d exceeds the cap band", i)
	}
}
