package domain

// RawFilterInput is the filter form as the user typed it. Numeric fields are
// free text; flags are plain booleans. JSON names match the stored session record.
type RawFilterInput struct {
	Category          string `json:"category"`
	Subcategory       string `json:"subcategory"`
	PriceMin          string `json:"priceMin"`
	PriceMax          string `json:"priceMax"`
	RatingThreshold   string `json:"ratingThreshold"`
	ReviewCountMax    string `json:"reviewCountMax"`
	BSRMin            string `json:"bsrMin"`
	BSRMax            string `json:"bsrMax"`
	MonthlyRevenueMin string `json:"monthlyRevenueMin"`
	MonthlyRevenueMax string `json:"monthlyRevenueMax"`

	LightweightPreference bool `json:"lightweightPreference"`
	NonBrandedFriendly    bool `json:"nonBrandedFriendly"`
	LowFBACount           bool `json:"lowFBACount"`
	HighReviewGrowth      bool `json:"highReviewGrowth"`
	HighMarginThreshold   bool `json:"highMarginThreshold"`
}

// HasInput reports whether the form differs from the blank form. Unlike
// FilterSpec.HasActiveFilters it counts text that would not parse.
func (r RawFilterInput) HasInput() bool {
	return r != RawFilterInput{}
}
