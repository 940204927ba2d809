package app

import (
	"cmp"
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	catalogDomain "github.com/fd1az/seller-scout/business/catalog/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
)

// DefaultLeaderboardSize is the number of products the margin leaderboard shows.
const DefaultLeaderboardSize = 10

// OpportunityScoreFilters narrows scored products after scoring.
type OpportunityScoreFilters struct {
	MinScore float64
	// Category, when set, must match exactly.
	Category string
}

// FilterByScore scores products and keeps those whose composite reaches
// MinScore. Products that fail to score are dropped.
func (s *Scorer) FilterByScore(products []catalogDomain.Product, f OpportunityScoreFilters) []Scored {
	return KeepByScore(s.ScoreAll(products), f)
}

// KeepByScore applies f to already scored products, preserving order.
func KeepByScore(scored []Scored, f OpportunityScoreFilters) []Scored {
	out := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if !s.OK() || s.Score.Composite < f.MinScore {
			continue
		}
		if f.Category != "" && s.Product.Category != f.Category {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortKey selects the ordering of a result list.
type SortKey string

const (
	SortByScore       SortKey = "score"
	SortByRevenue     SortKey = "revenue"
	SortByCompetition SortKey = "competition"
	SortByGrowth      SortKey = "growth"
)

// ParseSortKey accepts the sort key names; empty means score.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortByScore, nil
	case SortByScore, SortByRevenue, SortByCompetition, SortByGrowth:
		return k, nil
	}
	return "", apperror.Validation(apperror.CodeInvalidInput, "sort key "+s)
}

// Sort orders scored in place, best first, keeping ties in input order.
// Products that failed to score sort last. By competition, the least
// contested products come first.
func Sort(scored []Scored, key SortKey) {
	slices.SortStableFunc(scored, func(a, b Scored) int {
		if a.OK() != b.OK() {
			if a.OK() {
				return -1
			}
			return 1
		}
		switch key {
		case SortByRevenue:
			return b.Product.MonthlyRevenue().Cmp(a.Product.MonthlyRevenue())
		case SortByCompetition:
			return cmp.Compare(b.Score.Competition, a.Score.Competition)
		case SortByGrowth:
			return cmp.Compare(b.Score.Growth, a.Score.Growth)
		default:
			return cmp.Compare(b.Score.Composite, a.Score.Composite)
		}
	})
}

// Leaderboard returns up to n products with the highest margin. Products with
// a non-finite margin are skipped. The input is not modified.
func Leaderboard(products []catalogDomain.Product, n int) []catalogDomain.Product {
	if n <= 0 {
		return []catalogDomain.Product{}
	}
	ranked := make([]catalogDomain.Product, 0, len(products))
	for _, p := range products {
		if !math.IsNaN(p.Margin) && !math.IsInf(p.Margin, 0) {
			ranked = append(ranked, p)
		}
	}
	slices.SortStableFunc(ranked, func(a, b catalogDomain.Product) int {
		return cmp.Compare(b.Margin, a.Margin)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// CategoryStat summarises composite scores within one category.
type CategoryStat struct {
	Category        string
	Count           int
	MeanComposite   float64
	MedianComposite float64
	MaxComposite    float64
	StdDevComposite float64
}

// CategoryHeatmap groups successfully scored products by category, hottest
// category first (by mean composite, then name).
func CategoryHeatmap(scored []Scored) []CategoryStat {
	groups := make(map[string][]float64)
	for _, s := range scored {
		if s.OK() {
			groups[s.Product.Category] = append(groups[s.Product.Category], s.Score.Composite)
		}
	}

	stats := make([]CategoryStat, 0, len(groups))
	for category, values := range groups {
		sort.Float64s(values)
		st := CategoryStat{
			Category:        category,
			Count:           len(values),
			MeanComposite:   stat.Mean(values, nil),
			MedianComposite: stat.Quantile(0.5, stat.Empirical, values, nil),
			MaxComposite:    floats.Max(values),
		}
		if len(values) > 1 {
			st.StdDevComposite = stat.StdDev(values, nil)
		}
		stats = append(stats, st)
	}

	slices.SortFunc(stats, func(a, b CategoryStat) int {
		if c := cmp.Compare(b.MeanComposite, a.MeanComposite); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return stats
}
