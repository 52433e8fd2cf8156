package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/internal/engine"
	"github.com/folioquant/backend/internal/validation"
	"github.com/folioquant/backend/pkg/logger"
)

// OptimizeHandler serves the optimization API endpoints.
// ⭐ SSOT: the engine is only reached through this handler on the API path.
type OptimizeHandler struct {
	engine     *engine.Engine
	repo       *engine.Repository // nil when persistence is disabled
	policyHash string
	logger     *logger.Logger
}

// NewOptimizeHandler creates the handler. repo may be nil.
func NewOptimizeHandler(eng *engine.Engine, repo *engine.Repository, policyHash string, log *logger.Logger) *OptimizeHandler {
	return &OptimizeHandler{
		engine:     eng,
		repo:       repo,
		policyHash: policyHash,
		logger:     log,
	}
}

type optimizeRequest struct {
	Assets []contracts.Asset `json:"assets"`
}

type qualityRequest struct {
	Assets  []contracts.Asset `json:"assets"`
	Weights []float64         `json:"weights,omitempty"`
}

// Optimize runs the full engine over the posted asset list.
// POST /api/optimize
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	bundle, err := h.engine.OptimizeAll(ctx, req.Assets)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrAllocationSum),
			errors.Is(err, validation.ErrDuplicateAllocations):
			// Structural failure: do not show a silently-incorrect portfolio.
			h.logger.WithError(err).Error("Optimization integrity failure")
			respondError(w, http.StatusUnprocessableEntity,
				"Cannot compute a reliable portfolio for this asset combination")
		case errors.Is(err, contracts.ErrEmptyAssetList),
			errors.Is(err, contracts.ErrDuplicateSymbol):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	if h.repo != nil {
		rec, recErr := engine.BuildRunRecord(h.policyHash, req.Assets, bundle)
		if recErr == nil {
			recErr = h.repo.SaveRun(ctx, rec)
		}
		if recErr != nil {
			// Persistence is best-effort; the result is still valid.
			h.logger.WithError(recErr).Warn("Failed to persist run record")
		}
	}

	respondJSON(w, http.StatusOK, bundle)
}

// Quality evaluates the posted asset set without optimizing.
// POST /api/quality
func (h *OptimizeHandler) Quality(w http.ResponseWriter, r *http.Request) {
	var req qualityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	score, err := h.engine.QualityScore(req.Assets, req.Weights)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, score)
}

// Correlations returns the estimated correlation matrix for display.
// POST /api/correlations
func (h *OptimizeHandler) Correlations(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	matrix, err := h.engine.CorrelationMatrix(req.Assets)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	symbols := make([]string, len(req.Assets))
	for i, a := range req.Assets {
		symbols[i] = a.Symbol
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbols":     symbols,
		"correlation": matrix,
	})
}

// ListRuns returns recent persisted run records.
// GET /api/runs
func (h *OptimizeHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusNotImplemented, "Run persistence is not configured")
		return
	}

	records, err := h.repo.ListRecentRuns(r.Context(), 50)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// GetRun returns one persisted run record by id.
// GET /api/runs/{id}
func (h *OptimizeHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusNotImplemented, "Run persistence is not configured")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid run id")
		return
	}

	rec, err := h.repo.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, engine.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, "Run not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve run")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
