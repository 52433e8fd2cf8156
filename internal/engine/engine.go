// Package engine orchestrates one optimization run: return-cap
// pre-processing, correlation and covariance estimation, the three
// allocation strategies, quality scoring and validation.
//
// Each run is a pure function of its input asset list. The engine holds no
// mutable state between runs, so concurrent calls need no locking.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/folioquant/backend/internal/constraints"
	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/internal/correlation"
	"github.com/folioquant/backend/internal/optimizer"
	"github.com/folioquant/backend/internal/policy"
	"github.com/folioquant/backend/internal/quality"
	"github.com/folioquant/backend/internal/validation"
	"github.com/folioquant/backend/pkg/logger"
	"github.com/folioquant/backend/pkg/quantmath"
)

// DefaultMaxSingleAsset is the per-asset allocation cap when the caller does
// not override it.
const DefaultMaxSingleAsset = 0.40

// Engine is the optimization entry point.
type Engine struct {
	estimator *correlation.Estimator
	scorer    *quality.Scorer
	enforcer  *constraints.Enforcer
	log       *logger.Logger
}

// New creates an engine. Nil policy means the built-in default; a
// non-positive cap falls back to DefaultMaxSingleAsset.
func New(pol *policy.Policy, maxSingleAsset float64, log *logger.Logger) *Engine {
	if maxSingleAsset <= 0 {
		maxSingleAsset = DefaultMaxSingleAsset
	}
	if log == nil {
		log = logger.Nop()
	}
	estimator := correlation.NewEstimator(pol)
	return &Engine{
		estimator: estimator,
		scorer:    quality.NewScorer(estimator),
		enforcer:  constraints.NewEnforcer(maxSingleAsset),
		log:       log,
	}
}

// OptimizeAll runs the full pipeline and returns the three portfolios,
// quality diagnostics and validation results.
//
// Numerical degradation inside the optimizers never surfaces as an error.
// The only error paths are invalid input and allocation-integrity failure;
// on an integrity failure the caller must not display any result.
func (e *Engine) OptimizeAll(ctx context.Context, assets []contracts.Asset) (*contracts.OptimizationBundle, error) {
	_ = ctx // computation is synchronous and in-memory; ctx kept for interface symmetry

	normalized, err := contracts.NormalizeAssets(assets)
	if err != nil {
		return nil, err
	}

	trace := newTracer()

	capped, adjustments := e.applyReturnCaps(normalized)
	trace.add("return_caps", fmt.Sprintf("%d adjustment(s) applied", len(adjustments)))

	corrMatrix := e.estimator.Matrix(capped)
	score := e.scorer.Score(capped, nil)
	trace.add("quality", fmt.Sprintf("composite=%d tier=%s avg_corr=%.3f",
		score.Composite, score.CorrelationTier, score.AvgCorrelation))

	cov := e.estimator.Covariance(capped)

	// High correlation destabilizes the tangency inverse; regularize a copy
	// for that path only. The min-variance path keeps the raw matrix.
	covOptimal := cov
	if score.CorrelationTier == contracts.TierCorrHigh || score.CorrelationTier == contracts.TierCorrExtreme {
		covOptimal = correlation.Shrink(cov)
		trace.add("covariance", "shrinkage applied to tangency path")
	}

	optRes := optimizer.MaxSharpe(capped, covOptimal, e.enforcer)
	trace.add("optimal", string(optRes.Method))
	minRes := optimizer.MinVariance(capped, cov, e.enforcer)
	trace.add("minimum_variance", string(minRes.Method))
	maxRes := optimizer.MaxReturn(capped)
	trace.add("maximum_return", string(maxRes.Method))

	optimal := e.buildPortfolio(capped, optRes, corrMatrix)
	minVar := e.buildPortfolio(capped, minRes, corrMatrix)
	maxRet := e.buildPortfolio(capped, maxRes, corrMatrix)

	result := validation.Validate(optimal, minVar, maxRet, score)
	trace.add("validation", fmt.Sprintf("critical=%d warnings=%d",
		len(result.CriticalErrors), len(result.Warnings)))

	// Blocking integrity check: a violation here means the result must not
	// reach any caller.
	for name, p := range map[string]*contracts.Portfolio{
		"optimal": optimal, "minimum_variance": minVar, "maximum_return": maxRet,
	} {
		if err := validation.CheckIntegrity(p, capped); err != nil {
			e.log.WithError(err).WithField("portfolio", name).Error("allocation integrity failure")
			return nil, fmt.Errorf("portfolio %s failed integrity check: %w", name, err)
		}
	}

	e.log.WithFields(map[string]interface{}{
		"assets":        len(capped),
		"quality":       score.Composite,
		"tier":          score.CorrelationTier,
		"show_frontier": result.CanShowFrontier,
	}).Info("Optimization run completed")

	return &contracts.OptimizationBundle{
		Optimal:              optimal,
		MinimumVariance:      minVar,
		MaximumReturn:        maxRet,
		Validation:           result,
		Quality:              score,
		ReturnCapAdjustments: adjustments,
		Trace:                trace.events,
	}, nil
}

// CorrelationMatrix exposes the estimated correlation matrix for display.
func (e *Engine) CorrelationMatrix(assets []contracts.Asset) ([][]float64, error) {
	normalized, err := contracts.NormalizeAssets(assets)
	if err != nil {
		return nil, err
	}
	return e.estimator.Matrix(normalized), nil
}

// QualityScore evaluates an asset set (optionally under a candidate weight
// vector) without running the optimizers; used for what-if scenarios.
func (e *Engine) QualityScore(assets []contracts.Asset, weights []float64) (*contracts.QualityScore, error) {
	normalized, err := contracts.NormalizeAssets(assets)
	if err != nil {
		return nil, err
	}
	return e.scorer.Score(normalized, weights), nil
}

// buildPortfolio converts a strategy result into a Portfolio with derived
// metrics. Allocations are percentage points.
func (e *Engine) buildPortfolio(assets []contracts.Asset, r optimizer.Result, corrMatrix [][]float64) *contracts.Portfolio {
	risks := make([]float64, len(assets))
	returns := make([]float64, len(assets))
	allocations := make(map[string]float64, len(assets))
	for i, a := range assets {
		risks[i] = a.Risk
		returns[i] = a.ExpectedReturn
		allocations[a.Symbol] = r.Weights[i] * 100
	}

	expRet := quantmath.PortfolioExpectedReturn(r.Weights, returns)
	risk := quantmath.PortfolioRisk(r.Weights, risks, corrMatrix)

	return &contracts.Portfolio{
		Allocations:        allocations,
		ExpectedReturn:     expRet,
		Risk:               risk,
		SharpeRatio:        quantmath.SharpeRatio(expRet, risk, quantmath.RiskFreeRate),
		ConstraintsApplied: r.ConstraintsApplied,
	}
}

type tracer struct {
	events []contracts.TraceEvent
}

func newTracer() *tracer {
	return &tracer{events: make([]contracts.TraceEvent, 0, 8)}
}

func (t *tracer) add(stage, detail string) {
	t.events = append(t.events, contracts.TraceEvent{
		Stage:  stage,
		Detail: detail,
		At:     time.Now(),
	})
}
