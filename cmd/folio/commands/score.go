package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folioquant/backend/internal/engine"
	"github.com/folioquant/backend/pkg/config"
	"github.com/folioquant/backend/pkg/logger"
)

// scoreCmd evaluates quality for an asset file without optimizing.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Evaluate portfolio quality without optimizing",
	Long: `Computes the composite quality score (Sharpe, correlation,
diversification, maturity) for an asset file. Pass --weights for a
what-if evaluation of a candidate allocation.

Example:
  go run ./cmd/folio score --assets assets.yaml
  go run ./cmd/folio score --assets assets.yaml --weights 0.4,0.3,0.3`,
	RunE: runScore,
}

var (
	scoreAssetsPath string
	scoreWeights    []float64
	scoreJSON       bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreAssetsPath, "assets", "", "asset list file (YAML or JSON)")
	scoreCmd.Flags().Float64SliceVar(&scoreWeights, "weights", nil, "candidate weights (fractions, same order as assets)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "print the score as JSON")
	_ = scoreCmd.MarkFlagRequired("assets")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	pol, err := loadPolicy(cfg)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	assets, err := loadAssets(scoreAssetsPath)
	if err != nil {
		return err
	}

	eng := engine.New(pol, cfg.Engine.MaxSingleAsset, log)
	score, err := eng.QualityScore(assets, scoreWeights)
	if err != nil {
		return err
	}

	if scoreJSON {
		return printJSON(score)
	}
	printQuality(score)
	return nil
}
