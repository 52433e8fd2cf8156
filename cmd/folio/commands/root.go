package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	policyFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio - portfolio optimization engine",
	Long: `Folio CLI

Risk/return portfolio optimization over a candidate asset list:
maximum-Sharpe (tangency), minimum-variance and maximum-return
allocations with quality scoring and validation.

Usage:
  go run ./cmd/folio [command]

Examples:
  go run ./cmd/folio optimize --assets assets.yaml
  go run ./cmd/folio score --assets assets.yaml
  go run ./cmd/folio correlations --assets assets.yaml
  go run ./cmd/folio api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "classification policy YAML (default: built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
