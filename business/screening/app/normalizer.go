package app

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fd1az/seller-scout/business/screening/domain"
)

// maxExponent bounds accepted scientific notation; comparing decimals rescales them.
const maxExponent = 30

var maxUint64 = decimal.RequireFromString(strconv.FormatUint(math.MaxUint64, 10))

// Normalize turns raw form input into a FilterSpec. It never fails: text that
// is empty, malformed, non-finite or negative leaves the criterion absent, and
// a range is present only when both bounds parse and Min <= Max.
func Normalize(raw domain.RawFilterInput) domain.FilterSpec {
	spec := domain.FilterSpec{
		Category:    cleanText(raw.Category),
		Subcategory: cleanText(raw.Subcategory),
		Preferences: domain.Preferences{
			Lightweight:      raw.LightweightPreference,
			NonBranded:       raw.NonBrandedFriendly,
			LowCompetition:   raw.LowFBACount,
			HighReviewGrowth: raw.HighReviewGrowth,
			HighMargin:       raw.HighMarginThreshold,
		},
	}

	spec.Price = moneyRange(raw.PriceMin, raw.PriceMax)
	spec.MonthlyRevenue = moneyRange(raw.MonthlyRevenueMin, raw.MonthlyRevenueMax)
	spec.RatingThreshold = parseRating(raw.RatingThreshold)
	spec.ReviewCountMax = parseCount(raw.ReviewCountMax)

	if min, max := parseCount(raw.BSRMin), parseCount(raw.BSRMax); min != nil && max != nil {
		spec.BSR, _ = domain.NewCountRange(*min, *max)
	}

	return spec
}

// Serialize renders spec back to form text such that Normalize(Serialize(s)) equals s.
func Serialize(spec domain.FilterSpec) domain.RawFilterInput {
	raw := domain.RawFilterInput{
		Category:              spec.Category,
		Subcategory:           spec.Subcategory,
		LightweightPreference: spec.Lightweight,
		NonBrandedFriendly:    spec.NonBranded,
		LowFBACount:           spec.LowCompetition,
		HighReviewGrowth:      spec.HighReviewGrowth,
		HighMarginThreshold:   spec.HighMargin,
	}

	if spec.Price != nil {
		raw.PriceMin, raw.PriceMax = spec.Price.Min.String(), spec.Price.Max.String()
	}
	if spec.MonthlyRevenue != nil {
		raw.MonthlyRevenueMin, raw.MonthlyRevenueMax = spec.MonthlyRevenue.Min.String(), spec.MonthlyRevenue.Max.String()
	}
	if spec.RatingThreshold != nil {
		raw.RatingThreshold = strconv.FormatFloat(*spec.RatingThreshold, 'g', -1, 64)
	}
	if spec.ReviewCountMax != nil {
		raw.ReviewCountMax = strconv.FormatUint(*spec.ReviewCountMax, 10)
	}
	if spec.BSR != nil {
		raw.BSRMin = strconv.FormatUint(spec.BSR.Min, 10)
		raw.BSRMax = strconv.FormatUint(spec.BSR.Max, 10)
	}

	return raw
}

// HasActiveFilters reports whether spec constrains anything.
func HasActiveFilters(spec domain.FilterSpec) bool {
	return spec.HasActiveFilters()
}

// cleanText drops invalid UTF-8 before trimming so the result survives JSON encoding.
func cleanText(text string) string {
	return strings.TrimSpace(strings.ToValidUTF8(text, ""))
}

func moneyRange(minText, maxText string) *domain.MoneyRange {
	min, max := parseMoney(minText), parseMoney(maxText)
	if min == nil || max == nil {
		return nil
	}
	r, err := domain.NewMoneyRange(*min, *max)
	if err != nil {
		return nil
	}
	return r
}

func parseMoney(text string) *decimal.Decimal {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v, err := decimal.NewFromString(text)
	if err != nil || v.IsNegative() || v.Exponent() > maxExponent || v.Exponent() < -maxExponent {
		return nil
	}
	return &v
}

func parseRating(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// parseCount accepts any non-negative decimal text, floors it and requires it to fit uint64.
func parseCount(text string) *uint64 {
	v := parseMoney(text)
	if v == nil {
		return nil
	}
	floored := v.Floor()
	if floored.GreaterThan(maxUint64) {
		return nil
	}
	n := floored.BigInt().Uint64()
	return &n
}
