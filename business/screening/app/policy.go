// Package app contains the screening services: predicate evaluation,
// filter-state normalization and session persistence.
package app

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/seller-scout/internal/config"
)

// PreferencePolicy holds the thresholds behind the boolean preferences.
type PreferencePolicy struct {
	// LightweightMaxWeightKg applies when the product carries a weight.
	LightweightMaxWeightKg float64
	// LightweightMaxPrice is the proxy used when no weight is known.
	LightweightMaxPrice decimal.Decimal
	// LowCompetitionMaxReviews is exclusive.
	LowCompetitionMaxReviews uint64
	// ReviewGrowthSalesRatio is monthly sales per existing review; used without trend data.
	ReviewGrowthSalesRatio float64
	// HighMarginMin is inclusive.
	HighMarginMin float64
	// NonBrandSentinels are brand values treated as unbranded (case-insensitive).
	NonBrandSentinels []string
}

// DefaultPreferencePolicy returns the stock thresholds.
func DefaultPreferencePolicy() PreferencePolicy {
	return PreferencePolicy{
		LightweightMaxWeightKg:   1.0,
		LightweightMaxPrice:      decimal.NewFromInt(500),
		LowCompetitionMaxReviews: 200,
		ReviewGrowthSalesRatio:   0.5,
		HighMarginMin:            0.30,
		NonBrandSentinels:        []string{"generic", "unbranded", "no brand", "no-brand", "nobrand", "unknown"},
	}
}

// PolicyFromConfig builds a policy from screening configuration.
func PolicyFromConfig(cfg config.ScreeningConfig) PreferencePolicy {
	return PreferencePolicy{
		LightweightMaxWeightKg:   cfg.LightweightMaxWeightKg,
		LightweightMaxPrice:      cfg.LightweightMaxPriceDecimal(),
		LowCompetitionMaxReviews: cfg.LowCompetitionMaxReviews,
		ReviewGrowthSalesRatio:   cfg.ReviewGrowthSalesRatio,
		HighMarginMin:            cfg.HighMarginMin,
		NonBrandSentinels:        cfg.NonBrandSentinels,
	}
}

func normalizeBrand(brand string) string {
	return strings.ToLower(strings.TrimSpace(brand))
}
