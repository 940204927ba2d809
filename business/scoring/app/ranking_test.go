package app

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/fd1az/seller-scout/business/catalog/domain"
	"github.com/fd1az/seller-scout/business/scoring/domain"
)

func scored(id, category string, composite float64) Scored {
	return Scored{
		Product: catalogDomain.Product{ID: id, Category: category, Price: decimal.NewFromInt(100)},
		Score:   domain.OpportunityScore{Composite: composite},
	}
}

func ids(items []Scored) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Product.ID
	}
	return out
}

func TestKeepByScore(t *testing.T) {
	failed := scored("failed", "Toys", 99)
	failed.Err = assert.AnError
	items := []Scored{
		scored("a", "Toys", 80),
		scored("b", "Books", 75),
		failed,
		scored("c", "Toys", 50),
		scored("d", "Toys", 70),
	}

	assert.Equal(t, []string{"a", "b", "d"}, ids(KeepByScore(items, OpportunityScoreFilters{MinScore: 70})))
	assert.Equal(t, []string{"a", "d"}, ids(KeepByScore(items, OpportunityScoreFilters{MinScore: 70, Category: "Toys"})))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(KeepByScore(items, OpportunityScoreFilters{})))
}

func TestScorer_FilterByScore(t *testing.T) {
	s := newScorer(t)
	strong := listing("strong", 5000, 0, 1, 0.30)
	weak := listing("weak", 0, 10000, 100000, 0)
	broken := listing("broken", 1, 1, 1, math.Inf(1))

	got := s.FilterByScore([]catalogDomain.Product{weak, strong, broken}, OpportunityScoreFilters{MinScore: 40})
	assert.Equal(t, []string{"strong"}, ids(got))
}

func TestSort(t *testing.T) {
	failed := scored("failed", "Toys", 100)
	failed.Err = assert.AnError

	t.Run("score_desc_stable", func(t *testing.T) {
		items := []Scored{scored("a", "", 50), failed, scored("b", "", 90), scored("c", "", 50)}
		Sort(items, SortByScore)
		assert.Equal(t, []string{"b", "a", "c", "failed"}, ids(items))
	})

	t.Run("revenue", func(t *testing.T) {
		low, high := scored("low", "", 99), scored("high", "", 1)
		low.Product.EstimatedMonthlySales = 10
		high.Product.EstimatedMonthlySales = 1000
		items := []Scored{low, high}
		Sort(items, SortByRevenue)
		assert.Equal(t, []string{"high", "low"}, ids(items))
	})

	t.Run("competition_least_contested_first", func(t *testing.T) {
		crowded, open := scored("crowded", "", 0), scored("open", "", 0)
		crowded.Score.Competition = 10
		open.Score.Competition = 90
		items := []Scored{crowded, open}
		Sort(items, SortByCompetition)
		assert.Equal(t, []string{"open", "crowded"}, ids(items))
	})

	t.Run("growth", func(t *testing.T) {
		flat, rising := scored("flat", "", 0), scored("rising", "", 0)
		flat.Score.Growth = 50
		rising.Score.Growth = 85
		items := []Scored{flat, rising}
		Sort(items, SortByGrowth)
		assert.Equal(t, []string{"rising", "flat"}, ids(items))
	})
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortByScore, "score": SortByScore, "revenue": SortByRevenue, "competition": SortByCompetition, "growth": SortByGrowth} {
		got, err := ParseSortKey(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSortKey("price")
	assert.Error(t, err)
}

func TestLeaderboard(t *testing.T) {
	var products []catalogDomain.Product
	for i := 0; i < 15; i++ {
		products = append(products, catalogDomain.Product{ID: string(rune('a' + i)), Margin: float64(i) / 100})
	}
	products = append(products, catalogDomain.Product{ID: "nan", Margin: math.NaN()})

	top := Leaderboard(products, DefaultLeaderboardSize)
	require.Len(t, top, 10)
	assert.Equal(t, "o", top[0].ID)
	assert.Equal(t, "f", top[9].ID)
	assert.Equal(t, "a", products[0].ID, "input must not be reordered")

	assert.Len(t, Leaderboard(products[:3], 10), 3)
	assert.Empty(t, Leaderboard(products, 0))
}

func TestCategoryHeatmap(t *testing.T) {
	failed := scored("x", "Toys", 100)
	failed.Err = assert.AnError
	items := []Scored{
		scored("a", "Toys", 40),
		scored("b", "Toys", 60),
		scored("c", "Toys", 80),
		scored("d", "Books", 90),
		failed,
	}

	stats := CategoryHeatmap(items)
	require.Len(t, stats, 2)

	assert.Equal(t, "Books", stats[0].Category)
	assert.Equal(t, 1, stats[0].Count)
	assert.InDelta(t, 90, stats[0].MedianComposite, 1e-9)
	assert.Zero(t, stats[0].StdDevComposite)

	toys := stats[1]
	assert.Equal(t, "Toys", toys.Category)
	assert.Equal(t, 3, toys.Count)
	assert.InDelta(t, 60, toys.MeanComposite, 1e-9)
	assert.InDelta(t, 60, toys.MedianComposite, 1e-9)
	assert.InDelta(t, 80, toys.MaxComposite, 1e-9)
	assert.InDelta(t, 20, toys.StdDevComposite, 1e-9)

	assert.Empty(t, CategoryHeatmap(nil))
}
