package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/internal/engine"
	"github.com/folioquant/backend/pkg/config"
	"github.com/folioquant/backend/pkg/logger"
)

// correlationsCmd prints the estimated pairwise correlation matrix.
var correlationsCmd = &cobra.Command{
	Use:   "correlations",
	Short: "Print the estimated correlation matrix for an asset file",
	RunE:  runCorrelations,
}

var (
	corrAssetsPath string
	corrJSON       bool
)

func init() {
	rootCmd.AddCommand(correlationsCmd)

	correlationsCmd.Flags().StringVar(&corrAssetsPath, "assets", "", "asset list file (YAML or JSON)")
	correlationsCmd.Flags().BoolVar(&corrJSON, "json", false, "print the matrix as JSON")
	_ = correlationsCmd.MarkFlagRequired("assets")
}

func runCorrelations(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	pol, err := loadPolicy(cfg)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	assets, err := loadAssets(corrAssetsPath)
	if err != nil {
		return err
	}

	eng := engine.New(pol, cfg.Engine.MaxSingleAsset, log)
	matrix, err := eng.CorrelationMatrix(assets)
	if err != nil {
		return err
	}

	if corrJSON {
		symbols := make([]string, len(assets))
		for i, a := range assets {
			symbols[i] = a.Symbol
		}
		return printJSON(map[string]interface{}{
			"symbols": symbols,
			"matrix":  matrix,
		})
	}

	printCorrelationMatrix(assets, matrix)
	return nil
}

func printCorrelationMatrix(assets []contracts.Asset, matrix [][]float64) {
	fmt.Println()
	fmt.Println(strings.Repeat("═", 12+9*len(assets)))
	fmt.Printf("%-10s", "")
	for _, a := range assets {
		fmt.Printf(" %8s", truncSymbol(a.Symbol))
	}
	fmt.Println()
	fmt.Println(strings.Repeat("─", 12+9*len(assets)))
	for i, a := range assets {
		fmt.Printf("%-10s", truncSymbol(a.Symbol))
		for j := range assets {
			fmt.Printf(" %8.2f", matrix[i][j])
		}
		fmt.Println()
	}
	fmt.Println(strings.Repeat("═", 12+9*len(assets)))
}

func truncSymbol(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
