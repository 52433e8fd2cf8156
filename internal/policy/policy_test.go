package policy

import (
	"sync"
	"testing"

	"github.com/folioquant/backend/internal/contracts"
)

func TestPolicy_Classify(t *testing.T) {
	p := Default()

	tests := []struct {
		name  string
		asset contracts.Asset
		want  AssetType
	}{
		{"bond whitelist", contracts.Asset{Symbol: "AGG", Risk: 5}, TypeBondFund},
		{"commodity whitelist", contracts.Asset{Symbol: "GLD", Risk: 14}, TypeCommodityFund},
		{"real estate whitelist", contracts.Asset{Symbol: "VNQ", Risk: 18}, TypeRealEstateFund},
		{"broad market whitelist", contracts.Asset{Symbol: "SPY", Risk: 15}, TypeBroadMarketFund},
		{"unlisted fund flag", contracts.Asset{Symbol: "XFND", Risk: 15, IsIndexFund: true}, TypeBroadMarketFund},
		{"speculative by PE", contracts.Asset{Symbol: "MEME", Risk: 60, PERatio: -2, MarketCap: "5B"}, TypeSpeculative},
		{"speculative by size", contracts.Asset{Symbol: "TINY", Risk: 50, PERatio: 12, MarketCap: "100M"}, TypeSpeculative},
		{"large cap", contracts.Asset{Symbol: "AAPL", Risk: 22, PERatio: 28, MarketCap: "3.2T"}, TypeLargeCap},
		{"mid cap", contracts.Asset{Symbol: "ROKU", Risk: 35, PERatio: 30, MarketCap: "8B"}, TypeMidSmallCap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Classify(tt.asset); got != tt.want {
				t.Errorf("Classify(%s) = %v, want %v", tt.asset.Symbol, got, tt.want)
			}
		})
	}
}

func TestPolicy_WhitelistBeatsFundFlag(t *testing.T) {
	p := Default()

	// AGG stays a bond fund even with the generic fund flag set.
	a := contracts.Asset{Symbol: "AGG", Risk: 5, IsIndexFund: true}
	if got := p.Classify(a); got != TypeBondFund {
		t.Errorf("Classify(AGG) = %v, want %v", got, TypeBondFund)
	}
}

func TestPolicy_ClassifyClass(t *testing.T) {
	p := Default()

	tests := []struct {
		asset contracts.Asset
		want  AssetClass
	}{
		{contracts.Asset{Symbol: "SPY", Risk: 15}, ClassBroadMarket},
		{contracts.Asset{Symbol: "BND", Risk: 5}, ClassBond},
		{contracts.Asset{Symbol: "IAU", Risk: 14}, ClassCommodity},
		{contracts.Asset{Symbol: "IYR", Risk: 18}, ClassRealEstate},
		{contracts.Asset{Symbol: "MSFT", Risk: 22, PERatio: 32, MarketCap: "2.9T"}, ClassBlueChip},
		{contracts.Asset{Symbol: "MEME", Risk: 60, PERatio: -2, MarketCap: "5B"}, ClassSpeculative},
		{contracts.Asset{Symbol: "ROKU", Risk: 35, PERatio: 30, MarketCap: "8B"}, ClassGrowth},
	}

	for _, tt := range tests {
		if got := p.ClassifyClass(tt.asset); got != tt.want {
			t.Errorf("ClassifyClass(%s) = %v, want %v", tt.asset.Symbol, got, tt.want)
		}
	}
}

func TestPolicy_ConcurrentClassify(t *testing.T) {
	// A fresh policy's symbol indexes are built on first use; concurrent
	// first uses must all see fully built indexes. Run with -race.
	p := Default()

	assets := []contracts.Asset{
		{Symbol: "AGG", Risk: 5},
		{Symbol: "GLD", Risk: 14},
		{Symbol: "SPY", Risk: 15},
		{Symbol: "AAPL", Risk: 22, PERatio: 28, MarketCap: "3.2T"},
	}
	want := []AssetType{TypeBondFund, TypeCommodityFund, TypeBroadMarketFund, TypeLargeCap}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, a := range assets {
				if got := p.Classify(a); got != want[i] {
					t.Errorf("Classify(%s) = %v, want %v", a.Symbol, got, want[i])
				}
				if !p.IsLiquid("SPY") {
					t.Error("IsLiquid(SPY) = false")
				}
				if !p.IsDiversifier("AGG") {
					t.Error("IsDiversifier(AGG) = false")
				}
			}
		}()
	}
	wg.Wait()
}

func TestPairKey_Unordered(t *testing.T) {
	a := PairKey(TypeBondFund, TypeLargeCap)
	b := PairKey(TypeLargeCap, TypeBondFund)
	if a != b {
		t.Errorf("PairKey not symmetric: %q vs %q", a, b)
	}
}

func TestPolicy_BaseCorrelation(t *testing.T) {
	p := Default()

	// Known pair from the table.
	got := p.BaseCorrelation(TypeBroadMarketFund, TypeBondFund)
	if got != -0.10 {
		t.Errorf("BaseCorrelation(broad, bond) = %v, want -0.10", got)
	}

	// Order must not matter.
	rev := p.BaseCorrelation(TypeBondFund, TypeBroadMarketFund)
	if rev != got {
		t.Errorf("BaseCorrelation not symmetric: %v vs %v", got, rev)
	}
}

func TestPolicy_BaseCorrelation_Default(t *testing.T) {
	p := &Policy{DefaultCorrelation: 0.40}

	if got := p.BaseCorrelation(TypeLargeCap, TypeBondFund); got != 0.40 {
		t.Errorf("missing pair should use DefaultCorrelation, got %v", got)
	}
}

func TestPolicy_ReturnCap(t *testing.T) {
	p := Default()

	cap, ok := p.ReturnCap(ClassBond)
	if !ok || cap != 6 {
		t.Errorf("ReturnCap(bond) = %v, %v; want 6, true", cap, ok)
	}

	if _, ok := p.ReturnCap(AssetClass("nonexistent")); ok {
		t.Error("unknown class should report ok=false")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("default policy must validate, got %v", err)
	}

	bad := Default()
	bad.DefaultCorrelation = 1.5
	if err := Validate(bad); err == nil {
		t.Error("correlation outside [-1,1] must fail validation")
	}

	bad2 := Default()
	bad2.ReturnCaps[ClassBond] = -3
	if err := Validate(bad2); err == nil {
		t.Error("negative return cap must fail validation")
	}
}

func TestHash_Deterministic(t *testing.T) {
	h1, err := Hash(Default())
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, _ := Hash(Default())
	if h1 != h2 {
		t.Error("hash of identical policies differs")
	}

	changed := Default()
	changed.DefaultCorrelation = 0.41
	h3, _ := Hash(changed)
	if h3 == h1 {
		t.Error("hash did not change with the policy")
	}
}
