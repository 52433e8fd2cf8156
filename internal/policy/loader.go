package policy

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a policy overlay from a YAML file. Fields present in the file
// replace the corresponding defaults; omitted fields keep the built-in values.
// KnownFields(true): a typo in the file fails loudly instead of being ignored.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	overlay := &Policy{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(overlay); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	merged := merge(Default(), overlay)
	if err := Validate(merged); err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}
	return merged, nil
}

// Validate checks a policy for internally consistent values.
func Validate(p *Policy) error {
	if p.DefaultCorrelation < -1 || p.DefaultCorrelation > 1 {
		return fmt.Errorf("default_correlation %v outside [-1, 1]", p.DefaultCorrelation)
	}
	for key, v := range p.BaseCorrelations {
		if v < -1 || v > 1 {
			return fmt.Errorf("base correlation %s = %v outside [-1, 1]", key, v)
		}
	}
	for class, cap := range p.ReturnCaps {
		if cap <= 0 {
			return fmt.Errorf("return cap for %s must be positive, got %v", class, cap)
		}
	}
	return nil
}

// Hash returns the SHA-256 of the policy's canonical JSON form, recorded with
// persisted runs so results stay attributable to the exact policy used.
func Hash(p *Policy) (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// merge builds a fresh Policy rather than copying base: Policy carries a
// sync.Once for its symbol indexes, and a copied Once would pin stale maps.
func merge(base, overlay *Policy) *Policy {
	out := &Policy{
		BroadMarketSymbols: base.BroadMarketSymbols,
		BondSymbols:        base.BondSymbols,
		CommoditySymbols:   base.CommoditySymbols,
		RealEstateSymbols:  base.RealEstateSymbols,
		LiquidSymbols:      base.LiquidSymbols,
		DiversifierSymbols: base.DiversifierSymbols,
		BaseCorrelations:   base.BaseCorrelations,
		DefaultCorrelation: base.DefaultCorrelation,
		ReturnCaps:         base.ReturnCaps,
	}
	if len(overlay.BroadMarketSymbols) > 0 {
		out.BroadMarketSymbols = overlay.BroadMarketSymbols
	}
	if len(overlay.BondSymbols) > 0 {
		out.BondSymbols = overlay.BondSymbols
	}
	if len(overlay.CommoditySymbols) > 0 {
		out.CommoditySymbols = overlay.CommoditySymbols
	}
	if len(overlay.RealEstateSymbols) > 0 {
		out.RealEstateSymbols = overlay.RealEstateSymbols
	}
	if len(overlay.LiquidSymbols) > 0 {
		out.LiquidSymbols = overlay.LiquidSymbols
	}
	if len(overlay.DiversifierSymbols) > 0 {
		out.DiversifierSymbols = overlay.DiversifierSymbols
	}
	if len(overlay.BaseCorrelations) > 0 {
		merged := make(map[string]float64, len(base.BaseCorrelations))
		for k, v := range base.BaseCorrelations {
			merged[k] = v
		}
		for k, v := range overlay.BaseCorrelations {
			merged[k] = v
		}
		out.BaseCorrelations = merged
	}
	if overlay.DefaultCorrelation != 0 {
		out.DefaultCorrelation = overlay.DefaultCorrelation
	}
	if len(overlay.ReturnCaps) > 0 {
		merged := make(map[AssetClass]float64, len(base.ReturnCaps))
		for k, v := range base.ReturnCaps {
			merged[k] = v
		}
		for k, v := range overlay.ReturnCaps {
			merged[k] = v
		}
		out.ReturnCaps = merged
	}
	return out
}
