// Package research implements the research bounded context, composing the
// catalog, screening, scoring and profit contexts into dashboard use cases.
package research

import (
	"context"
	"fmt"

	catalogDI "github.com/fd1az/seller-scout/business/catalog/di"
	profitDI "github.com/fd1az/seller-scout/business/profit/di"
	"github.com/fd1az/seller-scout/business/research/app"
	researchDI "github.com/fd1az/seller-scout/business/research/di"
	"github.com/fd1az/seller-scout/business/research/infra"
	scoringDI "github.com/fd1az/seller-scout/business/scoring/di"
	screeningDI "github.com/fd1az/seller-scout/business/screening/di"
	"github.com/fd1az/seller-scout/internal/config"
	"github.com/fd1az/seller-scout/internal/di"
	"github.com/fd1az/seller-scout/internal/logger"
	"github.com/fd1az/seller-scout/internal/monolith"
)

// Module implements the research bounded context.
type Module struct{}

// RegisterServices registers the research service and the default reporter.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, researchDI.ResearchService, func(sr di.ServiceRegistry) *app.ResearchService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		svc, err := app.NewResearchService(app.Deps{
			Catalog:    catalogDI.GetCatalogService(sr),
			State:      screeningDI.GetFilterStateService(sr),
			Evaluator:  screeningDI.GetEvaluator(sr),
			Scorer:     scoringDI.GetScorer(sr),
			Calculator: profitDI.GetCalculator(sr),
			MinScore:   cfg.Scoring.MinScore,
		}, log)
		if err != nil {
			panic(fmt.Errorf("failed to create research service: %w", err))
		}
		return svc
	})

	di.RegisterToken(c, researchDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		return infra.NewConsoleReporter()
	})

	return nil
}

// Startup resolves the research service.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	researchDI.GetResearchService(mono.Services())
	mono.Logger().Debug(ctx, "research module started")
	return nil
}
