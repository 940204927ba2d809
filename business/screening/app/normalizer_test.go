package app

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/seller-scout/business/screening/domain"
)

func TestNormalize_BlankFormIsOpen(t *testing.T) {
	spec := Normalize(domain.RawFilterInput{})
	assert.False(t, spec.HasActiveFilters())
	assert.False(t, HasActiveFilters(spec))
}

func TestNormalize_ParsesEveryField(t *testing.T) {
	raw := domain.RawFilterInput{
		Category:              "  Electronics ",
		Subcategory:           "Cables",
		PriceMin:              "100",
		PriceMax:              "999.50",
		RatingThreshold:       "4.2",
		ReviewCountMax:        "500",
		BSRMin:                "1",
		BSRMax:                "20000",
		MonthlyRevenueMin:     "10000",
		MonthlyRevenueMax:     "500000",
		LightweightPreference: true,
		HighMarginThreshold:   true,
	}

	spec := Normalize(raw)

	assert.Equal(t, "Electronics", spec.Category)
	assert.Equal(t, "Cables", spec.Subcategory)
	require.NotNil(t, spec.Price)
	assert.True(t, spec.Price.Min.Equal(decimal.NewFromInt(100)))
	assert.True(t, spec.Price.Max.Equal(decimal.RequireFromString("999.5")))
	require.NotNil(t, spec.RatingThreshold)
	assert.Equal(t, 4.2, *spec.RatingThreshold)
	require.NotNil(t, spec.ReviewCountMax)
	assert.Equal(t, uint64(500), *spec.ReviewCountMax)
	require.NotNil(t, spec.BSR)
	assert.Equal(t, domain.CountRange{Min: 1, Max: 20000}, *spec.BSR)
	require.NotNil(t, spec.MonthlyRevenue)
	assert.True(t, spec.MonthlyRevenue.Max.Equal(decimal.NewFromInt(500000)))
	assert.True(t, spec.Lightweight)
	assert.True(t, spec.HighMargin)
	assert.False(t, spec.NonBranded)
}

func TestNormalize_InvalidInputLeavesCriterionAbsent(t *testing.T) {
	tests := []struct {
		name  string
		raw   domain.RawFilterInput
		check func(t *testing.T, s domain.FilterSpec)
	}{
		{
			name:  "only_min_price",
			raw:   domain.RawFilterInput{PriceMin: "100"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.Price) },
		},
		{
			name:  "only_max_price",
			raw:   domain.RawFilterInput{PriceMax: "100"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.Price) },
		},
		{
			name:  "inverted_price",
			raw:   domain.RawFilterInput{PriceMin: "900", PriceMax: "100"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.Price) },
		},
		{
			name:  "garbage_price",
			raw:   domain.RawFilterInput{PriceMin: "abc", PriceMax: "100"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.Price) },
		},
		{
			name:  "negative_price",
			raw:   domain.RawFilterInput{PriceMin: "-5", PriceMax: "100"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.Price) },
		},
		{
			name:  "huge_exponent",
			raw:   domain.RawFilterInput{PriceMin: "1", PriceMax: "1e400"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.Price) },
		},
		{
			name:  "nan_rating",
			raw:   domain.RawFilterInput{RatingThreshold: "NaN"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.RatingThreshold) },
		},
		{
			name:  "infinite_rating",
			raw:   domain.RawFilterInput{RatingThreshold: "+Inf"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.RatingThreshold) },
		},
		{
			name:  "negative_rating",
			raw:   domain.RawFilterInput{RatingThreshold: "-1"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.RatingThreshold) },
		},
		{
			name:  "negative_review_count",
			raw:   domain.RawFilterInput{ReviewCountMax: "-10"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.ReviewCountMax) },
		},
		{
			name:  "review_count_overflow",
			raw:   domain.RawFilterInput{ReviewCountMax: "18446744073709551616"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.ReviewCountMax) },
		},
		{
			name:  "inverted_bsr",
			raw:   domain.RawFilterInput{BSRMin: "500", BSRMax: "10"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.BSR) },
		},
		{
			name:  "one_sided_bsr",
			raw:   domain.RawFilterInput{BSRMax: "10"},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Nil(t, s.BSR) },
		},
		{
			name:  "whitespace_category",
			raw:   domain.RawFilterInput{Category: "   "},
			check: func(t *testing.T, s domain.FilterSpec) { assert.Empty(t, s.Category) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Normalize(tt.raw))
		})
	}
}

func TestNormalize_CountsAreFloored(t *testing.T) {
	spec := Normalize(domain.RawFilterInput{ReviewCountMax: "99.9", BSRMin: "1.5", BSRMax: "2.99"})

	require.NotNil(t, spec.ReviewCountMax)
	assert.Equal(t, uint64(99), *spec.ReviewCountMax)
	require.NotNil(t, spec.BSR)
	assert.Equal(t, domain.CountRange{Min: 1, Max: 2}, *spec.BSR)
}

func TestNormalize_MaxUint64Fits(t *testing.T) {
	spec := Normalize(domain.RawFilterInput{ReviewCountMax: "18446744073709551615"})
	require.NotNil(t, spec.ReviewCountMax)
	assert.Equal(t, uint64(18446744073709551615), *spec.ReviewCountMax)
}

func TestNormalize_EqualBoundsAccepted(t *testing.T) {
	spec := Normalize(domain.RawFilterInput{PriceMin: "250", PriceMax: "250.00"})
	require.NotNil(t, spec.Price)
	assert.True(t, spec.Price.Contains(decimal.NewFromInt(250)))
}

func TestSerialize_RoundTrip(t *testing.T) {
	price, err := domain.NewMoneyRange(decimal.RequireFromString("99.99"), decimal.NewFromInt(1500))
	require.NoError(t, err)
	revenue, err := domain.NewMoneyRange(decimal.Zero, decimal.NewFromInt(1_000_000))
	require.NoError(t, err)
	bsr, err := domain.NewCountRange(10, 18446744073709551615)
	require.NoError(t, err)

	specs := map[string]domain.FilterSpec{
		"open": {},
		"full": domain.FilterSpec{}.
			WithCategory("Home & Kitchen").
			WithSubcategory("Storage").
			WithPrice(price).
			WithRatingThreshold(3.75).
			WithReviewCountMax(0).
			WithBSR(bsr).
			WithMonthlyRevenue(revenue).
			WithPreferences(domain.Preferences{NonBranded: true, LowCompetition: true, HighReviewGrowth: true}),
		"flags_only": domain.FilterSpec{}.WithPreferences(domain.Preferences{Lightweight: true}),
	}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			got := Normalize(Serialize(spec))
			assert.True(t, spec.Equal(got), "round trip changed %s: %+v", name, got)
		})
	}
}

func TestSerialize_AbsentFieldsAreBlank(t *testing.T) {
	raw := Serialize(domain.FilterSpec{}.WithCategory("Toys"))
	assert.Equal(t, domain.RawFilterInput{Category: "Toys"}, raw)
}

func TestNormalize_DropsInvalidUTF8(t *testing.T) {
	spec := Normalize(domain.RawFilterInput{Category: "Toys\xff", Subcategory: "\xfe Puzzles "})
	assert.Equal(t, "Toys", spec.Category)
	assert.Equal(t, "Puzzles", spec.Subcategory)

	data, err := EncodeState(spec)
	require.NoError(t, err)
	back, err := DecodeState(data)
	require.NoError(t, err)
	assert.True(t, spec.Equal(back))
}

// FuzzNormalizeRoundTrip checks that a normalized filter survives both the
// form text round trip and the stored session document.
func FuzzNormalizeRoundTrip(f *testing.F) {
	atoms := []string{
		"", " ", "NaN", "Inf", "-Inf", "1e31", "1e30", "1e-30", "18446744073709551615",
		"18446744073709551616", "+3", ".5", "-0", "-1", "0", "4.25", "99.999", "abc", "Toys\xff",
	}
	for i, a := range atoms {
		b := atoms[(i+7)%len(atoms)]
		f.Add(a, b, a, b, a, b, a, b, a, b, uint8(i))
	}
	// inverted bounds
	f.Add("Books", "Fiction", "500", "100", "4", "10", "90", "5", "1000", "10", uint8(0x1f))

	f.Fuzz(func(t *testing.T, category, subcategory, priceMin, priceMax, rating, reviews, bsrMin, bsrMax, revenueMin, revenueMax string, flags uint8) {
		raw := domain.RawFilterInput{
			Category:              category,
			Subcategory:           subcategory,
			PriceMin:              priceMin,
			PriceMax:              priceMax,
			RatingThreshold:       rating,
			ReviewCountMax:        reviews,
			BSRMin:                bsrMin,
			BSRMax:                bsrMax,
			MonthlyRevenueMin:     revenueMin,
			MonthlyRevenueMax:     revenueMax,
			LightweightPreference: flags&1 != 0,
			NonBrandedFriendly:    flags&2 != 0,
			LowFBACount:           flags&4 != 0,
			HighReviewGrowth:      flags&8 != 0,
			HighMarginThreshold:   flags&16 != 0,
		}
		n := Normalize(raw)

		if again := Normalize(Serialize(n)); !n.Equal(again) {
			t.Fatalf("form round trip: %+v became %+v", n, again)
		}

		data, err := EncodeState(n)
		if err != nil {
			t.Fatalf("EncodeState: %v", err)
		}
		back, err := DecodeState(data)
		if err != nil {
			t.Fatalf("DecodeState(%s): %v", data, err)
		}
		if !n.Equal(back) {
			t.Fatalf("stored round trip: %+v became %+v (document %s)", n, back, data)
		}
	})
}
