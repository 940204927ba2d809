// Package scoring implements the opportunity scoring bounded context.
package scoring

import (
	"context"
	"fmt"

	"github.com/fd1az/seller-scout/business/scoring/app"
	scoringDI "github.com/fd1az/seller-scout/business/scoring/di"
	"github.com/fd1az/seller-scout/internal/config"
	"github.com/fd1az/seller-scout/internal/di"
	"github.com/fd1az/seller-scout/internal/monolith"
)

// Module implements the scoring bounded context.
type Module struct{}

// RegisterServices registers the scorer with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, scoringDI.Scorer, func(sr di.ServiceRegistry) *app.Scorer {
		cfg := sr.Get("config").(*config.Config)

		scorer, err := app.NewScorer(app.ParamsFromConfig(cfg.Scoring),
			app.WithParallelThreshold(cfg.Scoring.ParallelThreshold),
		)
		if err != nil {
			panic(fmt.Errorf("failed to create scorer: %w", err))
		}
		return scorer
	})
	return nil
}

// Startup builds the scorer eagerly so bad weights fail at boot.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	scorer := scoringDI.GetScorer(mono.Services())
	w := scorer.Params().Weights
	mono.Logger().Info(ctx, "scoring module started",
		"weight_demand", w.Demand,
		"weight_competition", w.Competition,
		"weight_margin", w.Margin,
		"weight_growth", w.Growth,
	)
	return nil
}
