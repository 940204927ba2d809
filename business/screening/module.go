// Package screening implements the screening bounded context: filter
// evaluation, filter-state normalization and per-session persistence.
package screening

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fd1az/seller-scout/business/screening/app"
	screeningDI "github.com/fd1az/seller-scout/business/screening/di"
	"github.com/fd1az/seller-scout/business/screening/infra/statestore"
	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/config"
	"github.com/fd1az/seller-scout/internal/di"
	"github.com/fd1az/seller-scout/internal/logger"
	"github.com/fd1az/seller-scout/internal/monolith"
)

const memorySweepInterval = time.Minute

// Module implements the screening bounded context.
type Module struct{}

// RegisterServices registers all screening services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, screeningDI.Evaluator, func(sr di.ServiceRegistry) *app.Evaluator {
		cfg := sr.Get("config").(*config.Config)
		return app.NewEvaluator(app.PolicyFromConfig(cfg.Screening))
	})

	// StateStore (private) - selected by session.backend
	di.RegisterToken(c, screeningDI.StateStore, func(sr di.ServiceRegistry) app.StateStore {
		cfg := sr.Get("config").(*config.Config)

		switch cfg.Session.Backend {
		case config.SessionRedis:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			store, err := statestore.NewRedisStore(ctx, statestore.RedisOptions{
				Addr:      cfg.Session.RedisAddr,
				Password:  cfg.Session.RedisPassword,
				DB:        cfg.Session.RedisDB,
				KeyPrefix: cfg.Session.KeyPrefix,
			})
			if err != nil {
				panic(fmt.Errorf("failed to create redis state store: %w", err))
			}
			return store
		case config.SessionMemory:
			return statestore.NewMemoryStore(memorySweepInterval)
		default:
			dir := cfg.Session.Dir
			if dir == "" {
				var err error
				if dir, err = statestore.DefaultFileDir(); err != nil {
					panic(apperror.New(apperror.CodeConfigurationError,
						apperror.WithContext("session.dir"), apperror.WithCause(err)))
				}
			}
			store, err := statestore.NewFileStore(dir)
			if err != nil {
				panic(apperror.External(apperror.CodeFilterStateStore, dir, err))
			}
			return store
		}
	})

	di.RegisterToken(c, screeningDI.FilterStateService, func(sr di.ServiceRegistry) *app.FilterStateService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewFilterStateService(screeningDI.GetStateStore(sr), cfg.Session.TTL, log)
	})

	return nil
}

// Startup resolves the state store and registers its readiness check.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	store := screeningDI.GetStateStore(mono.Services())
	if closer, ok := store.(io.Closer); ok {
		mono.OnClose(closer.Close)
	}

	svc := screeningDI.GetFilterStateService(mono.Services())
	mono.RegisterCheck("session_store", svc.Healthy)

	log.Info(ctx, "screening module started", "session_backend", mono.Config().Session.Backend)
	return nil
}
