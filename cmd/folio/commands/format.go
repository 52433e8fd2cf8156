package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/folioquant/backend/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// All commands share the same output layout.
// ═══════════════════════════════════════════════════════════

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBundle(b *contracts.OptimizationBundle) {
	printPortfolio("Optimal (Maximum Sharpe)", b.Optimal)
	printPortfolio("Minimum Variance", b.MinimumVariance)
	printPortfolio("Maximum Return", b.MaximumReturn)
	printQuality(b.Quality)

	if len(b.ReturnCapAdjustments) > 0 {
		fmt.Println("───────────────────────────────────────────────────────────")
		fmt.Println("  Return cap adjustments")
		for _, adj := range b.ReturnCapAdjustments {
			fmt.Printf("  %-8s %s: %.2f%% -> %.2f%%\n",
				adj.Symbol, adj.AssetClass, adj.OriginalReturn, adj.CappedReturn)
		}
	}

	printValidation(b.Validation)
}

func printPortfolio(name string, p *contracts.Portfolio) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", name)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Return    : %.2f%%\n", p.ExpectedReturn)
	fmt.Printf("  Risk      : %.2f%%\n", p.Risk)
	fmt.Printf("  Sharpe    : %.2f\n", p.SharpeRatio)
	if p.ConstraintsApplied {
		fmt.Println("  Note      : allocation constraints adjusted the raw solution")
	}

	symbols := make([]string, 0, len(p.Allocations))
	for s := range p.Allocations {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool {
		return p.Allocations[symbols[i]] > p.Allocations[symbols[j]]
	})
	for _, s := range symbols {
		if p.Allocations[s] == 0 {
			continue
		}
		fmt.Printf("  %-8s %6.2f%%\n", s, p.Allocations[s])
	}
}

func printQuality(q *contracts.QualityScore) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Quality: %d/100 (%s)\n", q.Composite, q.Band)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Sharpe          : %.0f\n", q.SharpeScore)
	fmt.Printf("  Correlation     : %.0f (avg %.2f, tier %s)\n", q.CorrelationScore, q.AvgCorrelation, q.CorrelationTier)
	fmt.Printf("  Diversification : %.0f\n", q.DiversificationScore)
	fmt.Printf("  Maturity        : %.0f\n", q.MaturityScore)
	fmt.Printf("  Confidence      : %s\n", q.Confidence)
	for _, warning := range q.Warnings {
		fmt.Printf("  ⚠ %s\n", warning)
	}
}

func printValidation(v *contracts.ValidationResult) {
	if len(v.CriticalErrors) == 0 && len(v.Warnings) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("───────────────────────────────────────────────────────────")
	for _, issue := range v.CriticalErrors {
		fmt.Printf("  ✗ [%s] %s\n", issue.Code, issue.Message)
	}
	for _, issue := range v.Warnings {
		fmt.Printf("  ⚠ [%s/%s] %s\n", issue.Severity, issue.Code, issue.Message)
	}
	if !v.CanShowFrontier {
		fmt.Println("  ✗ Frontier comparison suppressed for this asset set")
	}
}
