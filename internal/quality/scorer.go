// Package quality computes the composite 0-100 quality assessment of an
// asset set: risk-adjusted return, correlation, diversification and maturity
// sub-scores, plus the warnings and confidence gates derived from them.
package quality

import (
	"fmt"
	"math"

	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/internal/correlation"
	"github.com/folioquant/backend/pkg/quantmath"
)

// Sub-score weights. Sharpe dominates; maturity is a small tilt.
const (
	weightSharpe          = 0.40
	weightCorrelation     = 0.30
	weightDiversification = 0.20
	weightMaturity        = 0.10
)

// CompositeCeiling caps the composite score: no portfolio is perfect.
const CompositeCeiling = 95

// Warning thresholds.
const (
	warnCorrelation    = 0.85
	warnSpeculative    = 0.95
	warnMinAssetCount  = 3
	diversifierMinimum = 0.15
)

// Scorer evaluates asset sets against a fixed correlation estimator.
type Scorer struct {
	estimator *correlation.Estimator
}

// NewScorer creates a scorer sharing the engine's correlation estimator.
func NewScorer(estimator *correlation.Estimator) *Scorer {
	return &Scorer{estimator: estimator}
}

// Score computes the quality assessment. weights are fractions per asset and
// default to equal weighting when nil; they only shape the diversification
// and maturity sub-scores, matching a "what-if" evaluation of a candidate
// allocation over the same asset set.
func (s *Scorer) Score(assets []contracts.Asset, weights []float64) *contracts.QualityScore {
	n := len(assets)
	if weights == nil || len(weights) != n {
		weights = equalWeights(n)
	}

	corrMatrix := s.estimator.Matrix(assets)
	avgCorr := quantmath.AverageCorrelation(corrMatrix)

	sharpes := make([]float64, n)
	for i, a := range assets {
		sharpes[i] = quantmath.SharpeRatio(a.ExpectedReturn, a.Risk, quantmath.RiskFreeRate)
	}
	meanSharpe := quantmath.Mean(sharpes)

	specWeight := s.speculativeWeight(assets, weights)

	sharpeScore := scoreSharpe(meanSharpe, quantmath.Spread(sharpes))
	corrScore := scoreCorrelation(avgCorr)
	divScore := s.scoreDiversification(assets, weights)
	maturityScore := s.scoreMaturity(assets, weights, specWeight)

	composite := weightSharpe*sharpeScore +
		weightCorrelation*corrScore +
		weightDiversification*divScore +
		weightMaturity*maturityScore
	compositeInt := int(math.Round(quantmath.Clamp(composite, 0, CompositeCeiling)))

	tier := contracts.TierFor(avgCorr)

	return &contracts.QualityScore{
		Composite:            compositeInt,
		Band:                 contracts.BandFor(compositeInt),
		CorrelationTier:      tier,
		Confidence:           contracts.ConfidenceFor(tier),
		SharpeScore:          sharpeScore,
		CorrelationScore:     corrScore,
		DiversificationScore: divScore,
		MaturityScore:        maturityScore,
		AvgCorrelation:       avgCorr,
		Warnings:             buildWarnings(n, meanSharpe, avgCorr, specWeight),
	}
}

// scoreSharpe maps the mean per-asset Sharpe ratio onto a 5-95 scale, then
// adjusts for dispersion: a tight cluster earns +5, a wide spread between the
// best and worst asset costs 10.
func scoreSharpe(meanSharpe, spread float64) float64 {
	var score float64
	switch {
	case meanSharpe >= 2.0:
		score = 95
	case meanSharpe >= 1.5:
		score = 85
	case meanSharpe >= 1.0:
		score = 70
	case meanSharpe >= 0.75:
		score = 60
	case meanSharpe >= 0.5:
		score = 50
	case meanSharpe >= 0.25:
		score = 35
	case meanSharpe >= 0:
		score = 20
	default:
		score = 5
	}

	switch {
	case spread < 0.5:
		score += 5
	case spread > 2.0:
		score -= 10
	}

	return quantmath.Clamp(score, 0, 100)
}

// scoreCorrelation maps average pairwise correlation onto 0-100, monotone
// decreasing: tight correlation means the assets move together and the set
// diversifies nothing.
func scoreCorrelation(avgCorr float64) float64 {
	switch {
	case avgCorr < 0.15:
		return 95
	case avgCorr < 0.30:
		return 85
	case avgCorr < 0.40:
		return 70
	case avgCorr < 0.50:
		return 55
	case avgCorr < 0.60:
		return 40
	case avgCorr < 0.70:
		return 25
	case avgCorr < 0.80:
		return 10
	default:
		return 0
	}
}

// scoreDiversification blends Herfindahl concentration across sector,
// market-cap tier and asset type, plus a liquidity proxy for weight held in
// recognized highly-liquid instruments.
func (s *Scorer) scoreDiversification(assets []contracts.Asset, weights []float64) float64 {
	pol := s.estimator.Policy()

	sectorW := make(map[string]float64)
	tierW := make(map[contracts.MarketCapTier]float64)
	groupW := make(map[string]float64)
	var liquidW float64

	for i, a := range assets {
		w := weights[i]
		sectorW[a.Sector] += w
		tierW[a.CapTier()] += w
		groupW[pol.Classify(a).Group()] += w
		if pol.IsLiquid(a.Symbol) {
			liquidW += w
		}
	}

	sectorScore := (1 - quantmath.HerfindahlIndex(mapValues(sectorW))) * 100
	tierScore := (1 - quantmath.HerfindahlIndex(mapValues(tierWValues(tierW)))) * 100
	groupScore := (1 - quantmath.HerfindahlIndex(mapValues(groupW))) * 100
	liquidityScore := quantmath.Clamp(liquidW, 0, 1) * 100

	return quantmath.Clamp(
		0.35*sectorScore+0.25*tierScore+0.25*groupScore+0.15*liquidityScore,
		0, 100)
}

// scoreMaturity penalizes weight concentrated in speculative assets and
// rewards a meaningful stake in recognized low-correlation diversifiers.
func (s *Scorer) scoreMaturity(assets []contracts.Asset, weights []float64, specWeight float64) float64 {
	pol := s.estimator.Policy()

	var diversifierW float64
	for i, a := range assets {
		if pol.IsDiversifier(a.Symbol) {
			diversifierW += weights[i]
		}
	}

	score := 85 - specWeight*70
	if diversifierW >= diversifierMinimum {
		score += 10
	}
	return quantmath.Clamp(score, 0, 100)
}

func (s *Scorer) speculativeWeight(assets []contracts.Asset, weights []float64) float64 {
	var w float64
	for i, a := range assets {
		if a.IsSpeculative() {
			w += weights[i]
		}
	}
	return w
}

// buildWarnings emits ordered human-readable caveats, one per crossed
// threshold. Ordering is stable so callers can display them verbatim.
func buildWarnings(n int, meanSharpe, avgCorr, specWeight float64) []string {
	warnings := make([]string, 0, 4)

	if meanSharpe < 0 {
		warnings = append(warnings, fmt.Sprintf(
			"Average risk-adjusted return is negative (mean Sharpe %.2f); expected returns do not clear the risk-free rate.", meanSharpe))
	}
	if avgCorr > warnCorrelation {
		warnings = append(warnings, fmt.Sprintf(
			"Average pairwise correlation is %.0f%%; assets move almost in lockstep and diversification adds little.", avgCorr*100))
	}
	if specWeight > warnSpeculative {
		warnings = append(warnings, fmt.Sprintf(
			"%.0f%% of weight sits in speculative assets (no profitability signal or micro-cap).", specWeight*100))
	}
	if n < warnMinAssetCount {
		warnings = append(warnings, fmt.Sprintf(
			"Only %d asset(s) in the set; at least %d are needed for meaningful diversification.", n, warnMinAssetCount))
	}

	return warnings
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}

func mapValues(m map[string]float64) []float64 {
	out := make([]float64, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func tierWValues(m map[contracts.MarketCapTier]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
