package app

import (
	catalogApp "github.com/fd1az/seller-scout/business/catalog/app"
	catalogDomain "github.com/fd1az/seller-scout/business/catalog/domain"
	scoringApp "github.com/fd1az/seller-scout/business/scoring/app"
	scoringDomain "github.com/fd1az/seller-scout/business/scoring/domain"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
)

// ScreenOptions narrow and order a screening run.
type ScreenOptions struct {
	// MinScore, when nil, falls back to the configured default.
	MinScore *float64
	// Category restricts the scored list; it does not change the persisted filters.
	Category string
	Sort     scoringApp.SortKey
	// Mode of "" uses the catalog default.
	Mode catalogApp.FilterMode
}

// FailedProduct is a product that matched the filters but could not be scored.
type FailedProduct struct {
	ProductID string
	Err       error
}

// ScreenResult is one dashboard refresh.
type ScreenResult struct {
	SessionID string
	Spec      screeningDomain.FilterSpec
	// Active reports whether any filter criterion is set.
	Active bool
	// Matched counts products passing the filters, before score filtering.
	Matched int
	Items   []scoringApp.Scored
	Failed  []FailedProduct
	Heatmap []scoringApp.CategoryStat
}

// Evaluation is the detail view of a single product.
type Evaluation struct {
	Product        catalogDomain.Product
	Score          scoringDomain.OpportunityScore
	Recommendation scoringDomain.Recommendation
	Band           scoringDomain.MarginBand
	Tier           scoringDomain.ScoreTier
	Difficulty     scoringDomain.KeywordDifficulty
	// Unmet lists the session's filter criteria this product fails, when a session was given.
	Unmet []string
}

// LeaderboardEntry is one row of the margin leaderboard.
type LeaderboardEntry struct {
	Rank    int
	Product catalogDomain.Product
	Band    scoringDomain.MarginBand
}
