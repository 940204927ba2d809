// Package profit implements the per-unit profit calculation bounded context.
package profit

import (
	"context"

	"github.com/fd1az/seller-scout/business/profit/app"
	profitDI "github.com/fd1az/seller-scout/business/profit/di"
	"github.com/fd1az/seller-scout/business/profit/domain"
	"github.com/fd1az/seller-scout/internal/di"
	"github.com/fd1az/seller-scout/internal/monolith"
)

// Module implements the profit bounded context.
type Module struct{}

// RegisterServices registers the calculator with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, profitDI.Calculator, func(sr di.ServiceRegistry) *app.Calculator {
		return app.NewCalculator(domain.DefaultFeeSchedule())
	})
	return nil
}

// Startup initializes the profit module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Debug(ctx, "profit module started")
	return nil
}
