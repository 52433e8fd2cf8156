package contracts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Asset is a candidate instrument entering one optimization run.
// ⭐ Contract: the engine never mutates an Asset after ApplyReturnCaps;
// every run works on its own copy of the input slice.
type Asset struct {
	Symbol         string  `json:"symbol" yaml:"symbol"`
	ExpectedReturn float64 `json:"expected_return" yaml:"expected_return"` // annual, percent
	Risk           float64 `json:"risk" yaml:"risk"`                       // annual volatility, percent, must be > 0
	Beta           float64 `json:"beta" yaml:"beta"`                       // market sensitivity, default 1.0
	Sector         string  `json:"sector" yaml:"sector"`                   // default "Unknown"
	MarketCap      string  `json:"market_cap" yaml:"market_cap"`           // e.g. "850B", "3.2T", "500M"
	PERatio        float64 `json:"pe_ratio" yaml:"pe_ratio"`               // <= 0 means unprofitable / speculative
	IsIndexFund    bool    `json:"is_index_fund" yaml:"is_index_fund"`
}

// SectorUnknown is the sector assigned when the input omits one.
const SectorUnknown = "Unknown"

var (
	ErrEmptyAssetList  = errors.New("asset list is empty")
	ErrDuplicateSymbol = errors.New("duplicate asset symbol")
)

// Normalized returns a copy with defaults filled in (beta 1.0, sector Unknown).
func (a Asset) Normalized() Asset {
	out := a
	if out.Beta == 0 {
		out.Beta = 1.0
	}
	if strings.TrimSpace(out.Sector) == "" {
		out.Sector = SectorUnknown
	}
	return out
}

// Validate checks the per-asset invariants.
func (a Asset) Validate() error {
	if strings.TrimSpace(a.Symbol) == "" {
		return errors.New("asset symbol is required")
	}
	if a.Risk <= 0 {
		return fmt.Errorf("asset %s: risk must be positive, got %v", a.Symbol, a.Risk)
	}
	return nil
}

// NormalizeAssets validates the full input list and returns normalized copies.
func NormalizeAssets(assets []Asset) ([]Asset, error) {
	if len(assets) == 0 {
		return nil, ErrEmptyAssetList
	}

	seen := make(map[string]struct{}, len(assets))
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[a.Symbol]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSymbol, a.Symbol)
		}
		seen[a.Symbol] = struct{}{}
		out = append(out, a.Normalized())
	}
	return out, nil
}

// MarketCapTier buckets assets by market capitalization.
type MarketCapTier string

const (
	TierMega    MarketCapTier = "mega"  // >= 200B
	TierLarge   MarketCapTier = "large" // >= 10B
	TierMid     MarketCapTier = "mid"   // >= 2B
	TierSmall   MarketCapTier = "small" // >= 300M
	TierMicro   MarketCapTier = "micro" // < 300M
	TierUnknown MarketCapTier = "unknown"
)

// MarketCapValue parses the market-cap string into dollars.
// Accepts suffixes T/B/M/K (case-insensitive); returns 0 when unparseable.
func (a Asset) MarketCapValue() float64 {
	s := strings.ToUpper(strings.TrimSpace(a.MarketCap))
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0
	}

	mult := 1.0
	switch s[len(s)-1] {
	case 'T':
		mult = 1e12
		s = s[:len(s)-1]
	case 'B':
		mult = 1e9
		s = s[:len(s)-1]
	case 'M':
		mult = 1e6
		s = s[:len(s)-1]
	case 'K':
		mult = 1e3
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v * mult
}

// CapTier returns the market-cap tier for the asset.
func (a Asset) CapTier() MarketCapTier {
	v := a.MarketCapValue()
	switch {
	case v <= 0:
		return TierUnknown
	case v >= 200e9:
		return TierMega
	case v >= 10e9:
		return TierLarge
	case v >= 2e9:
		return TierMid
	case v >= 300e6:
		return TierSmall
	default:
		return TierMicro
	}
}

// IsSpeculative reports whether the asset has no profitability signal:
// funds are never speculative, stocks with PERatio <= 0 or micro-cap size are.
func (a Asset) IsSpeculative() bool {
	if a.IsIndexFund {
		return false
	}
	if a.PERatio <= 0 {
		return true
	}
	return a.CapTier() == TierMicro
}
