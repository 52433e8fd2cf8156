package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folioquant/backend/internal/contracts"
)

// RunRecord is the persisted audit trail of one optimization run: enough to
// reproduce what a caller was shown without re-running the engine.
type RunRecord struct {
	ID            uuid.UUID `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	PolicyHash    string    `json:"policy_hash"`
	AssetCount    int       `json:"asset_count"`
	QualityScore  int       `json:"quality_score"`
	Tier          string    `json:"correlation_tier"`
	ShowFrontier  bool      `json:"show_frontier"`
	BundleJSON    []byte    `json:"-"`
	AssetsJSON    []byte    `json:"-"`
	CriticalCount int       `json:"critical_count"`
}

// ErrRunNotFound is returned by GetRun when no run exists for the id.
var ErrRunNotFound = errors.New("run not found")

// Repository persists optimization run records.
// ⭐ SSOT: run audit persistence happens only here. The engine itself never
// touches storage; the CLI and API call this when a database is configured.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a run repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveRun stores a completed run with its full bundle as JSONB.
func (r *Repository) SaveRun(ctx context.Context, rec *RunRecord) error {
	query := `
		INSERT INTO engine.runs (
			id, created_at, policy_hash, asset_count, quality_score,
			correlation_tier, show_frontier, critical_count, assets, bundle
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.CreatedAt, rec.PolicyHash, rec.AssetCount, rec.QualityScore,
		rec.Tier, rec.ShowFrontier, rec.CriticalCount, rec.AssetsJSON, rec.BundleJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun retrieves one run by id.
func (r *Repository) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	query := `
		SELECT id, created_at, policy_hash, asset_count, quality_score,
		       correlation_tier, show_frontier, critical_count, assets, bundle
		FROM engine.runs
		WHERE id = $1
	`

	var rec RunRecord
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.CreatedAt, &rec.PolicyHash, &rec.AssetCount, &rec.QualityScore,
		&rec.Tier, &rec.ShowFrontier, &rec.CriticalCount, &rec.AssetsJSON, &rec.BundleJSON,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &rec, nil
}

// ListRecentRuns returns up to limit most recent run records, newest first.
func (r *Repository) ListRecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT id, created_at, policy_hash, asset_count, quality_score,
		       correlation_tier, show_frontier, critical_count
		FROM engine.runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &rec.PolicyHash, &rec.AssetCount, &rec.QualityScore,
			&rec.Tier, &rec.ShowFrontier, &rec.CriticalCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// BuildRunRecord assembles a RunRecord from a completed run.
func BuildRunRecord(policyHash string, assets []contracts.Asset, bundle *contracts.OptimizationBundle) (*RunRecord, error) {
	assetsJSON, err := json.Marshal(assets)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assets: %w", err)
	}
	bundleJSON, err := json.Marshal(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bundle: %w", err)
	}

	return &RunRecord{
		ID:            uuid.New(),
		CreatedAt:     time.Now().UTC(),
		PolicyHash:    policyHash,
		AssetCount:    len(assets),
		QualityScore:  bundle.Quality.Composite,
		Tier:          string(bundle.Quality.CorrelationTier),
		ShowFrontier:  bundle.Validation.CanShowFrontier,
		CriticalCount: len(bundle.Validation.CriticalErrors),
		AssetsJSON:    assetsJSON,
		BundleJSON:    bundleJSON,
	}, nil
}
