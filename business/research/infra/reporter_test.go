package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/fd1az/seller-scout/business/catalog/domain"
	profitApp "github.com/fd1az/seller-scout/business/profit/app"
	profitDomain "github.com/fd1az/seller-scout/business/profit/domain"
	"github.com/fd1az/seller-scout/business/research/app"
	scoringApp "github.com/fd1az/seller-scout/business/scoring/app"
	scoringDomain "github.com/fd1az/seller-scout/business/scoring/domain"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
)

func sampleResult() *app.ScreenResult {
	p := catalogDomain.Product{
		ID:                    "B0C1KX01",
		Title:                 "Stainless steel water bottle 1L",
		Category:              "Home & Kitchen",
		Price:                 decimal.NewFromInt(499),
		EstimatedMonthlySales: 1200,
		Margin:                0.32,
	}
	score := scoringDomain.OpportunityScore{Demand: 83, Competition: 61, Margin: 100, Growth: 70, Composite: 78.5}
	return &app.ScreenResult{
		SessionID: "sess-1",
		Spec:      screeningDomain.FilterSpec{Category: "Home & Kitchen", Preferences: screeningDomain.Preferences{HighMargin: true}},
		Active:    true,
		Matched:   2,
		Items:     []scoringApp.Scored{{Product: p, Score: score}},
		Failed:    []app.FailedProduct{{ProductID: "B0C1KX09", Err: errors.New("margin NaN is not finite")}},
		Heatmap: []scoringApp.CategoryStat{
			{Category: "Home & Kitchen", Count: 1, MeanComposite: 78.5, MedianComposite: 78.5, MaxComposite: 78.5},
		},
	}
}

func breakdown(t *testing.T) *profitDomain.ProfitBreakdown {
	t.Helper()
	b, err := profitApp.NewCalculator(profitDomain.DefaultFeeSchedule()).Calculate(profitDomain.ProfitInput{
		SellingPrice: decimal.NewFromInt(1000),
		CostPrice:    decimal.NewFromInt(500),
		WeightKg:     decimal.RequireFromString("0.5"),
		AdsBudget:    decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	return b
}

func TestConsoleReporter_ReportScreen(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterTo(&buf)
	require.NoError(t, r.ReportScreen(context.Background(), sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "sess-1")
	assert.Contains(t, out, "category=Home & Kitchen")
	assert.Contains(t, out, "high-margin")
	assert.Contains(t, out, "B0C1KX01")
	assert.Contains(t, out, "₹598800")
	assert.Contains(t, out, "recommended")
	assert.Contains(t, out, "Not scored")
	assert.Contains(t, out, "B0C1KX09")
	assert.Contains(t, out, "Category heatmap")
}

func TestConsoleReporter_ReportEvaluation(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporterTo(&buf)
	ev := &app.Evaluation{
		Product:        catalogDomain.Product{ID: "B0C1KX20", Title: "Notebook", Category: "Books & Stationery", Price: decimal.NewFromInt(99)},
		Recommendation: scoringDomain.Avoid,
		Band:           scoringDomain.MarginLow,
		Tier:           scoringDomain.TierRed,
		Difficulty:     scoringDomain.DifficultyHard,
		Unmet:          []string{"category", "high_margin"},
	}
	require.NoError(t, r.ReportEvaluation(context.Background(), ev))

	out := buf.String()
	assert.Contains(t, out, "unranked")
	assert.Contains(t, out, "difficulty hard")
	assert.Contains(t, out, "category, high_margin")
	assert.NotContains(t, out, "Books & Stationery / ")
}

func TestConsoleReporter_ReportProfit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporterTo(&buf).ReportProfit(context.Background(), breakdown(t)))

	out := buf.String()
	assert.Contains(t, out, "₹150.00")
	assert.Contains(t, out, "₹60.00")
	assert.Contains(t, out, "12.00%")
	assert.Contains(t, out, "11.00%")
}

func TestConsoleReporter_ReportLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	entries := []app.LeaderboardEntry{
		{Rank: 1, Product: catalogDomain.Product{ID: "x", Title: "X", Price: decimal.NewFromInt(10), Margin: 0.41}, Band: scoringDomain.MarginHigh},
	}
	require.NoError(t, NewConsoleReporterTo(&buf).ReportLeaderboard(context.Background(), entries))
	assert.Contains(t, buf.String(), "41%")
	assert.Contains(t, buf.String(), "high")
}

func TestJSONReporter_ReportScreen(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf).ReportScreen(context.Background(), sampleResult()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "sess-1", doc["sessionId"])
	assert.Equal(t, true, doc["active"])

	filters := doc["filters"].(map[string]any)
	assert.Equal(t, "Home & Kitchen", filters["category"])
	assert.Equal(t, true, filters["highMarginThreshold"])

	items := doc["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "B0C1KX01", item["product"].(map[string]any)["id"])
	assert.Equal(t, "recommended", item["score"].(map[string]any)["recommendation"])

	failed := doc["failed"].([]any)
	assert.True(t, strings.Contains(failed[0].(map[string]any)["error"].(string), "NaN"))
}

func TestJSONReporter_ReportProfit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONReporter(&buf).ReportProfit(context.Background(), breakdown(t)))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "60", doc["netProfitPerUnit"])
	assert.Equal(t, true, doc["profitable"])
}
