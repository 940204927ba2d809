// Package catalog implements the catalog bounded context: product reads from
// the backend API or a local fixture, with cache invalidation from the change feed.
package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fd1az/seller-scout/business/catalog/app"
	catalogDI "github.com/fd1az/seller-scout/business/catalog/di"
	"github.com/fd1az/seller-scout/business/catalog/infra/backend"
	"github.com/fd1az/seller-scout/business/catalog/infra/feed"
	"github.com/fd1az/seller-scout/business/catalog/infra/memory"
	screeningDI "github.com/fd1az/seller-scout/business/screening/di"
	"github.com/fd1az/seller-scout/internal/config"
	"github.com/fd1az/seller-scout/internal/di"
	"github.com/fd1az/seller-scout/internal/health"
	"github.com/fd1az/seller-scout/internal/logger"
	"github.com/fd1az/seller-scout/internal/monolith"
	"github.com/fd1az/seller-scout/internal/wsconn"
)

const feedDialTimeout = 10 * time.Second

// Module implements the catalog bounded context.
type Module struct{}

// RegisterServices registers all catalog services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// ProductStore (private) - selected by catalog.source
	di.RegisterToken(c, catalogDI.ProductStore, func(sr di.ServiceRegistry) app.ProductStore {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if cfg.Catalog.Source == config.SourceFixture {
			products, err := memory.LoadFixture(cfg.Catalog.FixturePath)
			if err != nil {
				panic(fmt.Errorf("failed to load catalog fixture: %w", err))
			}
			store, err := memory.NewStore(screeningDI.GetEvaluator(sr), products)
			if err != nil {
				panic(fmt.Errorf("failed to build catalog fixture store: %w", err))
			}
			return store
		}

		bcfg := backend.DefaultConfig(cfg.Catalog.BaseURL)
		bcfg.APIToken = cfg.Catalog.APIToken
		bcfg.RequestTimeout = cfg.Catalog.RequestTimeout
		bcfg.RequestsPerMinute = cfg.Catalog.RequestsPerMinute
		bcfg.CacheTTL = cfg.Catalog.CacheTTL

		store, err := backend.NewStore(bcfg, log)
		if err != nil {
			panic(fmt.Errorf("failed to create catalog backend store: %w", err))
		}
		return store
	})

	di.RegisterToken(c, catalogDI.Feed, func(sr di.ServiceRegistry) *feed.Feed {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		inv, ok := catalogDI.GetProductStore(sr).(app.Invalidator)
		if !ok {
			panic("catalog feed requires a caching product store")
		}

		wcfg := wsconn.DefaultConfig(cfg.Catalog.FeedURL, "catalog-feed")
		wcfg.MaxReconnects = cfg.Catalog.MaxReconnects
		if cfg.Catalog.InitialBackoff > 0 {
			wcfg.InitialBackoff = cfg.Catalog.InitialBackoff
		}
		if cfg.Catalog.MaxBackoff > 0 {
			wcfg.MaxBackoff = cfg.Catalog.MaxBackoff
		}
		if cfg.Catalog.APIToken != "" {
			wcfg.Header = map[string][]string{"Authorization": {"Bearer " + cfg.Catalog.APIToken}}
		}

		f, err := feed.NewWithConfig(wcfg, inv, log)
		if err != nil {
			panic(fmt.Errorf("failed to create catalog feed: %w", err))
		}
		return f
	})

	di.RegisterToken(c, catalogDI.CatalogService, func(sr di.ServiceRegistry) *app.CatalogService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		mode, err := app.ParseFilterMode(cfg.Catalog.FilterMode)
		if err != nil {
			panic(fmt.Errorf("invalid catalog filter mode: %w", err))
		}
		return app.NewCatalogService(catalogDI.GetProductStore(sr), screeningDI.GetEvaluator(sr), mode, log)
	})

	return nil
}

// Startup resolves the store, registers its checks and starts the change feed.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	store := catalogDI.GetProductStore(mono.Services())
	if closer, ok := store.(io.Closer); ok {
		mono.OnClose(closer.Close)
	}
	if checker, ok := store.(interface {
		Healthy(context.Context) (bool, string)
	}); ok {
		mono.RegisterCheck("catalog", health.CheckFunc(checker.Healthy))
	}

	if cfg.Catalog.FeedEnabled && cfg.Catalog.Source == config.SourceBackend {
		f := catalogDI.GetFeed(mono.Services())
		mono.OnClose(f.Close)
		mono.RegisterCheck("catalog_feed", f.Healthy)

		dialCtx, cancel := context.WithTimeout(ctx, feedDialTimeout)
		err := f.Start(dialCtx)
		cancel()
		if err != nil {
			// reads still work, only served from a cache that expires by TTL
			log.Warn(ctx, "catalog feed unavailable", "url", cfg.Catalog.FeedURL, "error", err)
		}
	}

	log.Info(ctx, "catalog module started",
		"source", cfg.Catalog.Source,
		"filter_mode", catalogDI.GetCatalogService(mono.Services()).Mode(),
	)
	return nil
}
