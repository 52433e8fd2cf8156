package constraints

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folioquant/backend/internal/contracts"
)

func testAssets(n int) []contracts.Asset {
	out := make([]contracts.Asset, n)
	for i := range out {
		out[i] = contracts.Asset{
			Symbol:         string(rune('A' + i)),
			ExpectedReturn: 8 + float64(i),
			Risk:           15 + float64(i)*2,
		}
	}
	return out
}

func sum(weights []float64) float64 {
	var s float64
	for _, w := range weights {
		s += w
	}
	return s
}

func TestMinAllocationFor(t *testing.T) {
	assert.Equal(t, 0.10, MinAllocationFor(2))
	assert.Equal(t, 0.10, MinAllocationFor(4))
	assert.Equal(t, 0.08, MinAllocationFor(5))
	assert.Equal(t, 0.08, MinAllocationFor(10))
}

func TestApply_FloorsSmallWeights(t *testing.T) {
	e := NewEnforcer(0.40)
	assets := testAssets(3)

	raw := []float64{0.02, 0.38, 0.60}
	weights, changedFlag := e.Apply(raw, assets)

	assert.True(t, changedFlag)
	assert.InDelta(t, 1.0, sum(weights), 1e-9, "weights must renormalize to 1")
	for i, w := range weights {
		assert.GreaterOrEqual(t, w, 0.0, "weight %d negative", i)
	}
	// The floored asset must not stay at its raw dust level.
	assert.Greater(t, weights[0], 0.05)
}

func TestApply_CapsSingleAsset(t *testing.T) {
	e := NewEnforcer(0.40)
	assets := testAssets(4)

	raw := []float64{0.70, 0.10, 0.10, 0.10}
	weights, changedFlag := e.Apply(raw, assets)

	assert.True(t, changedFlag)
	assert.InDelta(t, 1.0, sum(weights), 1e-9)
	for i, w := range weights {
		// Uniqueness nudges and renormalization can push slightly past the
		// cap; allow a small margin.
		assert.LessOrEqual(t, w, 0.40+0.02, "weight %d exceeds cap", i)
	}
}

func TestApply_RedistributionFavorsMerit(t *testing.T) {
	e := NewEnforcer(0.40)
	assets := []contracts.Asset{
		{Symbol: "HOT", ExpectedReturn: 18, Risk: 20},  // high sharpe
		{Symbol: "MID", ExpectedReturn: 10, Risk: 18},  // mid sharpe
		{Symbol: "COLD", ExpectedReturn: 5, Risk: 25},  // near-zero sharpe
		{Symbol: "OVER", ExpectedReturn: 12, Risk: 22}, // the capped one
	}

	raw := []float64{0.15, 0.15, 0.10, 0.60}
	weights, _ := e.Apply(raw, assets)

	assert.InDelta(t, 1.0, sum(weights), 1e-9)
	// The high-Sharpe asset should absorb more of the excess than the
	// low-Sharpe one.
	assert.Greater(t, weights[0], weights[2])
}

func TestApply_NudgesDuplicatesApart(t *testing.T) {
	e := NewEnforcer(1.0) // disable cap phase to isolate uniqueness
	assets := []contracts.Asset{
		{Symbol: "A", ExpectedReturn: 12, Risk: 20},
		{Symbol: "B", ExpectedReturn: 8, Risk: 15},
	}

	raw := []float64{0.5, 0.5}
	weights, changedFlag := e.Apply(raw, assets)

	assert.True(t, changedFlag)
	assert.InDelta(t, 1.0, sum(weights), 1e-9)
	assert.NotEqual(t,
		math.Round(weights[0]*1e4),
		math.Round(weights[1]*1e4),
		"distinct assets must not share an allocation at 4-decimal precision")
}

func TestApply_IdenticalProfilesMayCollapse(t *testing.T) {
	e := NewEnforcer(1.0)
	assets := []contracts.Asset{
		{Symbol: "SPY", ExpectedReturn: 10, Risk: 15},
		{Symbol: "VOO", ExpectedReturn: 10, Risk: 15},
	}

	raw := []float64{0.5, 0.5}
	weights, changedFlag := e.Apply(raw, assets)

	assert.False(t, changedFlag, "identical profiles should keep equal weights")
	assert.Equal(t, weights[0], weights[1])
}

func TestApply_EmptyAndMismatched(t *testing.T) {
	e := NewEnforcer(0.40)

	weights, changedFlag := e.Apply(nil, nil)
	assert.Nil(t, weights)
	assert.False(t, changedFlag)

	raw := []float64{0.5, 0.5}
	weights, changedFlag = e.Apply(raw, testAssets(3))
	assert.Equal(t, raw, weights)
	assert.False(t, changedFlag)
}

func TestApply_CapDisabled(t *testing.T) {
	e := NewEnforcer(1.0)
	assets := testAssets(2)

	// Concentrated but distinct weights above any usual cap survive.
	raw := []float64{0.85, 0.15}
	weights, _ := e.Apply(raw, assets)

	assert.InDelta(t, 1.0, sum(weights), 1e-9)
	assert.Greater(t, weights[0], 0.80)
}

func TestApply_ConservesMassUnderRepeatedCaps(t *testing.T) {
	// Many assets over the cap force several redistribute rounds.
	e := NewEnforcer(0.25)
	assets := testAssets(6)

	raw := []float64{0.40, 0.35, 0.15, 0.05, 0.03, 0.02}
	weights, _ := e.Apply(raw, assets)

	assert.InDelta(t, 1.0, sum(weights), 1e-9)
	for i, w := range weights {
		assert.GreaterOrEqual(t, w, 0.0, "weight %d negative", i)
	}
}
