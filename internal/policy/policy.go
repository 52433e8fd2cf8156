// Package policy owns the classification data the correlation estimator and
// return-cap layer run on: ticker whitelists, the empirical base correlation
// table and per-class return caps.
//
// ⭐ SSOT: classification policy lives here, as data. The algorithms in
// internal/correlation and internal/engine never hard-code tickers, so the
// policy can be tested and replaced independently.
package policy

import (
	"sync"

	"github.com/folioquant/backend/internal/contracts"
)

// AssetType is the coarse instrument type used for correlation lookup.
type AssetType string

const (
	TypeBroadMarketFund AssetType = "broad_market_fund"
	TypeBondFund        AssetType = "bond_fund"
	TypeCommodityFund   AssetType = "commodity_fund"
	TypeRealEstateFund  AssetType = "real_estate_fund"
	TypeSpeculative     AssetType = "speculative_stock"
	TypeLargeCap        AssetType = "large_cap_stock"
	TypeMidSmallCap     AssetType = "mid_small_cap_stock"
)

// IsFund reports whether the type is any kind of fund.
func (t AssetType) IsFund() bool {
	switch t {
	case TypeBroadMarketFund, TypeBondFund, TypeCommodityFund, TypeRealEstateFund:
		return true
	}
	return false
}

// Grouping used by the diversification sub-score: stock / fund / bond.
func (t AssetType) Group() string {
	switch t {
	case TypeBondFund:
		return "bond"
	case TypeBroadMarketFund, TypeCommodityFund, TypeRealEstateFund:
		return "fund"
	default:
		return "stock"
	}
}

// AssetClass buckets assets for return-cap purposes.
type AssetClass string

const (
	ClassBroadMarket AssetClass = "broad_market_fund"
	ClassBond        AssetClass = "bond_fund"
	ClassCommodity   AssetClass = "commodity_fund"
	ClassRealEstate  AssetClass = "real_estate_fund"
	ClassBlueChip    AssetClass = "blue_chip_stock"
	ClassSpeculative AssetClass = "speculative_stock"
	ClassGrowth      AssetClass = "growth_stock"
)

// Policy is the full injectable classification configuration.
type Policy struct {
	BroadMarketSymbols []string `yaml:"broad_market_symbols" json:"broad_market_symbols"`
	BondSymbols        []string `yaml:"bond_symbols" json:"bond_symbols"`
	CommoditySymbols   []string `yaml:"commodity_symbols" json:"commodity_symbols"`
	RealEstateSymbols  []string `yaml:"real_estate_symbols" json:"real_estate_symbols"`

	// LiquidSymbols back the liquidity proxy of the diversification score.
	LiquidSymbols []string `yaml:"liquid_symbols" json:"liquid_symbols"`
	// DiversifierSymbols earn the maturity bonus (bonds, gold, international).
	DiversifierSymbols []string `yaml:"diversifier_symbols" json:"diversifier_symbols"`

	// BaseCorrelations keys are unordered type pairs, see PairKey.
	BaseCorrelations map[string]float64 `yaml:"base_correlations" json:"base_correlations"`
	// DefaultCorrelation is used for pairs absent from the table.
	DefaultCorrelation float64 `yaml:"default_correlation" json:"default_correlation"`

	// ReturnCaps are per-class expected-return ceilings in percent.
	ReturnCaps map[AssetClass]float64 `yaml:"return_caps" json:"return_caps"`

	// A Policy is shared by the engine, scorer and estimator across
	// concurrent runs; the symbol indexes are built exactly once.
	indexOnce      sync.Once
	broadSet       map[string]struct{}
	bondSet        map[string]struct{}
	commoditySet   map[string]struct{}
	realEstateSet  map[string]struct{}
	liquidSet      map[string]struct{}
	diversifierSet map[string]struct{}
}

// Classify assigns the coarse asset type. Order matters: symbol whitelists
// first, then the index-fund flag, then the profitability and size signals.
func (p *Policy) Classify(a contracts.Asset) AssetType {
	p.ensureIndexes()

	switch {
	case member(p.bondSet, a.Symbol):
		return TypeBondFund
	case member(p.commoditySet, a.Symbol):
		return TypeCommodityFund
	case member(p.realEstateSet, a.Symbol):
		return TypeRealEstateFund
	case member(p.broadSet, a.Symbol):
		return TypeBroadMarketFund
	case a.IsIndexFund:
		return TypeBroadMarketFund
	}

	if a.IsSpeculative() {
		return TypeSpeculative
	}
	switch a.CapTier() {
	case contracts.TierMega, contracts.TierLarge:
		return TypeLargeCap
	default:
		return TypeMidSmallCap
	}
}

// ClassifyClass assigns the return-cap asset class.
func (p *Policy) ClassifyClass(a contracts.Asset) AssetClass {
	switch p.Classify(a) {
	case TypeBondFund:
		return ClassBond
	case TypeCommodityFund:
		return ClassCommodity
	case TypeRealEstateFund:
		return ClassRealEstate
	case TypeBroadMarketFund:
		return ClassBroadMarket
	case TypeSpeculative:
		return ClassSpeculative
	case TypeLargeCap:
		return ClassBlueChip
	default:
		return ClassGrowth
	}
}

// ReturnCap returns the expected-return ceiling for an asset class, or ok
// false when the policy does not cap that class.
func (p *Policy) ReturnCap(class AssetClass) (float64, bool) {
	cap, ok := p.ReturnCaps[class]
	return cap, ok
}

// BaseCorrelation looks up the empirical base correlation for an unordered
// type pair, falling back to DefaultCorrelation.
func (p *Policy) BaseCorrelation(a, b AssetType) float64 {
	if v, ok := p.BaseCorrelations[PairKey(a, b)]; ok {
		return v
	}
	return p.DefaultCorrelation
}

// IsLiquid reports membership in the highly-liquid whitelist.
func (p *Policy) IsLiquid(symbol string) bool {
	p.ensureIndexes()
	return member(p.liquidSet, symbol)
}

// IsDiversifier reports membership in the low-correlation diversifier list.
func (p *Policy) IsDiversifier(symbol string) bool {
	p.ensureIndexes()
	return member(p.diversifierSet, symbol)
}

// PairKey builds the canonical unordered key for two asset types.
func PairKey(a, b AssetType) string {
	if string(a) <= string(b) {
		return string(a) + "|" + string(b)
	}
	return string(b) + "|" + string(a)
}

func (p *Policy) ensureIndexes() {
	p.indexOnce.Do(func() {
		p.broadSet = toSet(p.BroadMarketSymbols)
		p.bondSet = toSet(p.BondSymbols)
		p.commoditySet = toSet(p.CommoditySymbols)
		p.realEstateSet = toSet(p.RealEstateSymbols)
		p.liquidSet = toSet(p.LiquidSymbols)
		p.diversifierSet = toSet(p.DiversifierSymbols)
	})
}

func toSet(symbols []string) map[string]struct{} {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return set
}

func member(set map[string]struct{}, symbol string) bool {
	_, ok := set[symbol]
	return ok
}
