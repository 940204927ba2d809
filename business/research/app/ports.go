// Package app contains the research service that composes catalog, screening,
// scoring and profit into dashboard use cases.
package app

import (
	"context"

	profitDomain "github.com/fd1az/seller-scout/business/profit/domain"
)

// Reporter renders research results.
type Reporter interface {
	ReportScreen(ctx context.Context, res *ScreenResult) error
	ReportEvaluation(ctx context.Context, ev *Evaluation) error
	ReportLeaderboard(ctx context.Context, entries []LeaderboardEntry) error
	ReportProfit(ctx context.Context, b *profitDomain.ProfitBreakdown) error
}
