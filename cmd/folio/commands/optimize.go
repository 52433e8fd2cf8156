package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folioquant/backend/internal/engine"
	"github.com/folioquant/backend/pkg/config"
	"github.com/folioquant/backend/pkg/logger"
)

// optimizeCmd runs one full optimization over an asset file.
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run the full optimization pipeline over an asset file",
	Long: `Runs return-cap pre-processing, correlation estimation, the three
allocation strategies (tangency, minimum-variance, maximum-return),
quality scoring and validation, then prints the result.

Example:
  go run ./cmd/folio optimize --assets assets.yaml
  go run ./cmd/folio optimize --assets assets.json --json`,
	RunE: runOptimize,
}

var (
	optimizeAssetsPath string
	optimizeJSON       bool
)

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVar(&optimizeAssetsPath, "assets", "", "asset list file (YAML or JSON)")
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "print the raw result bundle as JSON")
	_ = optimizeCmd.MarkFlagRequired("assets")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}
	log := logger.New(cfg)

	pol, err := loadPolicy(cfg)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	assets, err := loadAssets(optimizeAssetsPath)
	if err != nil {
		return err
	}

	eng := engine.New(pol, cfg.Engine.MaxSingleAsset, log)
	bundle, err := eng.OptimizeAll(context.Background(), assets)
	if err != nil {
		return fmt.Errorf("cannot compute a reliable portfolio for this asset combination: %w", err)
	}

	if optimizeJSON {
		return printJSON(bundle)
	}
	printBundle(bundle)
	return nil
}
