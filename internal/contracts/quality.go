package contracts

// QualityBand is the qualitative label for a composite quality score.
type QualityBand string

const (
	BandExceptional QualityBand = "Exceptional" // >= 80
	BandStrong      QualityBand = "Strong"      // >= 65
	BandAcceptable  QualityBand = "Acceptable"  // >= 45
	BandWeak        QualityBand = "Weak"        // >= 25
	BandPoor        QualityBand = "Poor"        // < 25
)

// CorrelationTier buckets average pairwise correlation.
type CorrelationTier string

const (
	TierCorrLow      CorrelationTier = "low"      // < 0.5
	TierCorrModerate CorrelationTier = "moderate" // >= 0.5
	TierCorrHigh     CorrelationTier = "high"     // > 0.6
	TierCorrExtreme  CorrelationTier = "extreme"  // > 0.75
)

// ConfidenceLevel gates how much trust downstream layers should place in the
// optimized frontier.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceBlocked ConfidenceLevel = "blocked"
)

// QualityScore is the composite 0-100 quality assessment of an asset set.
// Composite is capped at 95: no portfolio is perfect.
type QualityScore struct {
	Composite       int             `json:"composite"`
	Band            QualityBand     `json:"quality_band"`
	CorrelationTier CorrelationTier `json:"correlation_tier"`
	Confidence      ConfidenceLevel `json:"confidence_level"`

	SharpeScore          float64 `json:"sharpe_score"`
	CorrelationScore     float64 `json:"correlation_score"`
	DiversificationScore float64 `json:"diversification_score"`
	MaturityScore        float64 `json:"maturity_score"`

	AvgCorrelation float64 `json:"avg_correlation"`

	Warnings []string `json:"warnings"`
}

// BandFor maps a composite score to its qualitative band.
func BandFor(composite int) QualityBand {
	switch {
	case composite >= 80:
		return BandExceptional
	case composite >= 65:
		return BandStrong
	case composite >= 45:
		return BandAcceptable
	case composite >= 25:
		return BandWeak
	default:
		return BandPoor
	}
}

// TierFor maps average pairwise correlation to its tier.
// Thresholds: 0.5 moderate, 0.6 high, 0.75 extreme.
func TierFor(avgCorrelation float64) CorrelationTier {
	switch {
	case avgCorrelation > 0.75:
		return TierCorrExtreme
	case avgCorrelation > 0.60:
		return TierCorrHigh
	case avgCorrelation >= 0.50:
		return TierCorrModerate
	default:
		return TierCorrLow
	}
}

// ConfidenceFor maps a correlation tier to the confidence level downstream
// layers should assume.
func ConfidenceFor(tier CorrelationTier) ConfidenceLevel {
	switch tier {
	case TierCorrLow:
		return ConfidenceHigh
	case TierCorrModerate:
		return ConfidenceMedium
	case TierCorrHigh:
		return ConfidenceLow
	default:
		return ConfidenceBlocked
	}
}
