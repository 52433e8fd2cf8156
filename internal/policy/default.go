package policy

// Default returns the built-in classification policy. Base correlations are
// coarse empirical estimates for US-listed instruments over the last decade;
// override any of them from a YAML policy file when the universe differs.
func Default() *Policy {
	return &Policy{
		BroadMarketSymbols: []string{
			"SPY", "VOO", "VTI", "IVV", "QQQ", "DIA", "SCHB", "VT",
			"VEA", "VWO", "EFA", "IEMG", "VXUS",
		},
		BondSymbols: []string{
			"AGG", "BND", "TLT", "IEF", "SHY", "LQD", "HYG", "BNDX",
			"VTEB", "MUB",
		},
		CommoditySymbols: []string{
			"GLD", "IAU", "SLV", "GDX", "USO", "UNG", "DBC", "PDBC",
		},
		RealEstateSymbols: []string{
			"VNQ", "IYR", "SCHH", "XLRE", "RWR",
		},
		LiquidSymbols: []string{
			"SPY", "VOO", "VTI", "IVV", "QQQ", "DIA",
			"AGG", "BND", "TLT", "GLD", "VNQ",
		},
		DiversifierSymbols: []string{
			"AGG", "BND", "TLT", "IEF", "SHY", "LQD", "BNDX",
			"GLD", "IAU",
			"VEA", "VWO", "EFA", "IEMG", "VXUS",
		},

		DefaultCorrelation: 0.40,
		BaseCorrelations: map[string]float64{
			PairKey(TypeBroadMarketFund, TypeBroadMarketFund): 0.90,
			PairKey(TypeBroadMarketFund, TypeBondFund):        -0.10,
			PairKey(TypeBroadMarketFund, TypeCommodityFund):   0.15,
			PairKey(TypeBroadMarketFund, TypeRealEstateFund):  0.60,
			PairKey(TypeBroadMarketFund, TypeLargeCap):        0.85,
			PairKey(TypeBroadMarketFund, TypeMidSmallCap):     0.75,
			PairKey(TypeBroadMarketFund, TypeSpeculative):     0.55,

			PairKey(TypeBondFund, TypeBondFund):       0.85,
			PairKey(TypeBondFund, TypeCommodityFund):  0.05,
			PairKey(TypeBondFund, TypeRealEstateFund): 0.20,
			PairKey(TypeBondFund, TypeLargeCap):       -0.05,
			PairKey(TypeBondFund, TypeMidSmallCap):    -0.10,
			PairKey(TypeBondFund, TypeSpeculative):    -0.15,

			PairKey(TypeCommodityFund, TypeCommodityFund):  0.70,
			PairKey(TypeCommodityFund, TypeRealEstateFund): 0.25,
			PairKey(TypeCommodityFund, TypeLargeCap):       0.20,
			PairKey(TypeCommodityFund, TypeMidSmallCap):    0.15,
			PairKey(TypeCommodityFund, TypeSpeculative):    0.10,

			PairKey(TypeRealEstateFund, TypeRealEstateFund): 0.80,
			PairKey(TypeRealEstateFund, TypeLargeCap):       0.55,
			PairKey(TypeRealEstateFund, TypeMidSmallCap):    0.50,
			PairKey(TypeRealEstateFund, TypeSpeculative):    0.40,

			PairKey(TypeLargeCap, TypeLargeCap):    0.70,
			PairKey(TypeLargeCap, TypeMidSmallCap): 0.65,
			PairKey(TypeLargeCap, TypeSpeculative): 0.50,

			PairKey(TypeMidSmallCap, TypeMidSmallCap): 0.70,
			PairKey(TypeMidSmallCap, TypeSpeculative): 0.60,

			PairKey(TypeSpeculative, TypeSpeculative): 0.65,
		},

		ReturnCaps: map[AssetClass]float64{
			ClassBroadMarket: 12,
			ClassBond:        6,
			ClassCommodity:   8,
			ClassRealEstate:  10,
			ClassBlueChip:    14,
			ClassSpeculative: 20,
			ClassGrowth:      16,
		},
	}
}
