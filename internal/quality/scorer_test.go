package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/internal/correlation"
)

func newTestScorer() *Scorer {
	return NewScorer(correlation.NewEstimator(nil))
}

// A balanced mixed book: broad market, bonds, gold, one blue chip.
func balancedAssets() []contracts.Asset {
	return []contracts.Asset{
		{Symbol: "SPY", ExpectedReturn: 10, Risk: 15, Beta: 1.0, Sector: "Blend"},
		{Symbol: "AGG", ExpectedReturn: 4.8, Risk: 5, Beta: 0.1, Sector: "Fixed Income"},
		{Symbol: "GLD", ExpectedReturn: 6, Risk: 14, Beta: 0.2, Sector: "Commodity"},
		{Symbol: "AAPL", ExpectedReturn: 13, Risk: 24, Beta: 1.2, Sector: "Technology", PERatio: 28, MarketCap: "3.2T"},
	}
}

// Four near-clones of the index: same type, same sector, same beta.
func lockstepAssets() []contracts.Asset {
	return []contracts.Asset{
		{Symbol: "SPY", ExpectedReturn: 10, Risk: 15, Beta: 1.0},
		{Symbol: "VOO", ExpectedReturn: 10, Risk: 15, Beta: 1.0},
		{Symbol: "IVV", ExpectedReturn: 10, Risk: 15, Beta: 1.0},
		{Symbol: "VTI", ExpectedReturn: 10.2, Risk: 15.2, Beta: 1.0},
	}
}

func TestScore_BalancedBookOutranksLockstep(t *testing.T) {
	s := newTestScorer()

	balanced := s.Score(balancedAssets(), nil)
	lockstep := s.Score(lockstepAssets(), nil)

	assert.Greater(t, balanced.Composite, lockstep.Composite)
	assert.Less(t, balanced.AvgCorrelation, lockstep.AvgCorrelation)
}

func TestScore_CompositeWithinBounds(t *testing.T) {
	s := newTestScorer()

	for _, assets := range [][]contracts.Asset{balancedAssets(), lockstepAssets()} {
		q := s.Score(assets, nil)
		assert.GreaterOrEqual(t, q.Composite, 0)
		assert.LessOrEqual(t, q.Composite, CompositeCeiling)
		assert.Equal(t, contracts.BandFor(q.Composite), q.Band)
		assert.Equal(t, contracts.TierFor(q.AvgCorrelation), q.CorrelationTier)
		assert.Equal(t, contracts.ConfidenceFor(q.CorrelationTier), q.Confidence)
	}
}

func TestScore_ExtremeCorrelationBlocks(t *testing.T) {
	s := newTestScorer()

	q := s.Score(lockstepAssets(), nil)

	// Clones of the broad-market index estimate at 0.95 pairwise.
	assert.Equal(t, contracts.TierCorrExtreme, q.CorrelationTier)
	assert.Equal(t, contracts.ConfidenceBlocked, q.Confidence)

	// The lockstep warning fires.
	assert.Greater(t, q.AvgCorrelation, 0.85)
	assert.NotEmpty(t, q.Warnings, "extreme correlation must warn")
}

func TestScore_SmallBookWarning(t *testing.T) {
	s := newTestScorer()

	q := s.Score([]contracts.Asset{
		{Symbol: "SPY", ExpectedReturn: 10, Risk: 15, Beta: 1.0},
		{Symbol: "AGG", ExpectedReturn: 4.8, Risk: 5, Beta: 0.1},
	}, nil)

	assert.NotEmpty(t, q.Warnings, "two-asset book should warn about size")
}

func TestScore_NegativeSharpeWarning(t *testing.T) {
	s := newTestScorer()

	q := s.Score([]contracts.Asset{
		{Symbol: "A", ExpectedReturn: 1, Risk: 20, Beta: 1.0, Sector: "Technology", PERatio: 20, MarketCap: "50B"},
		{Symbol: "B", ExpectedReturn: 2, Risk: 30, Beta: 1.1, Sector: "Energy", PERatio: 10, MarketCap: "40B"},
		{Symbol: "C", ExpectedReturn: 0.5, Risk: 25, Beta: 0.9, Sector: "Utilities", PERatio: 12, MarketCap: "30B"},
	}, nil)

	assert.NotEmpty(t, q.Warnings)
	assert.Less(t, q.SharpeScore, 30.0)
}

func TestScore_WeightsShapeMaturity(t *testing.T) {
	s := newTestScorer()

	assets := []contracts.Asset{
		{Symbol: "MEME", ExpectedReturn: 25, Risk: 70, Beta: 2.5, PERatio: -3, MarketCap: "2B"},
		{Symbol: "AGG", ExpectedReturn: 4.8, Risk: 5, Beta: 0.1},
		{Symbol: "SPY", ExpectedReturn: 10, Risk: 15, Beta: 1.0},
	}

	heavySpec := s.Score(assets, []float64{0.98, 0.01, 0.01})
	lightSpec := s.Score(assets, []float64{0.02, 0.49, 0.49})

	assert.Less(t, heavySpec.MaturityScore, lightSpec.MaturityScore)
}

func TestScoreSharpe_Buckets(t *testing.T) {
	tests := []struct {
		mean, spread, want float64
	}{
		{2.5, 1.0, 95},
		{1.6, 1.0, 85},
		{1.1, 1.0, 70},
		{0.8, 1.0, 60},
		{0.6, 1.0, 50},
		{0.3, 1.0, 35},
		{0.1, 1.0, 20},
		{-0.5, 1.0, 5},
		// dispersion adjustments
		{1.1, 0.2, 75},
		{1.1, 2.5, 60},
	}

	for _, tt := range tests {
		got := scoreSharpe(tt.mean, tt.spread)
		assert.Equal(t, tt.want, got, "scoreSharpe(%v, %v)", tt.mean, tt.spread)
	}
}

func TestScoreCorrelation_MonotoneDecreasing(t *testing.T) {
	prev := 200.0
	for _, avg := range []float64{0.05, 0.2, 0.35, 0.45, 0.55, 0.65, 0.75, 0.9} {
		got := scoreCorrelation(avg)
		assert.LessOrEqual(t, got, prev, "scoreCorrelation must not increase at %v", avg)
		prev = got
	}
	assert.Equal(t, 95.0, scoreCorrelation(0.05))
	assert.Equal(t, 0.0, scoreCorrelation(0.9))
}
