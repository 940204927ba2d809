// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/config"
	"github.com/fd1az/seller-scout/internal/di"
	"github.com/fd1az/seller-scout/internal/health"
	"github.com/fd1az/seller-scout/internal/logger"
)

// Monolith is the main application container providing access to shared infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	Services() di.ServiceRegistry
	// RegisterCheck adds a readiness check; it is a no-op without a health server.
	RegisterCheck(name string, check health.CheckFunc)
	// OnClose registers a cleanup run by Close in reverse order.
	OnClose(fn func() error)
}

// Module represents a bounded context module that can register services and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config    *config.Config
	logger    logger.LoggerInterface
	health    *health.Server
	container di.Container

	mu       sync.Mutex
	closers  []func() error
	isClosed bool
}

// Option configures the container.
type Option func(*app)

// WithHealthServer routes module readiness checks to srv.
func WithHealthServer(srv *health.Server) Option {
	return func(a *app) {
		a.health = srv
	}
}

// New creates a new Monolith instance.
func New(cfg *config.Config, log logger.LoggerInterface, opts ...Option) *app {
	container := di.NewContainer()

	// Register global services
	container.Register("config", cfg)
	container.Register("logger", log)

	a := &app{
		config:    cfg,
		logger:    log,
		container: container,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

func (a *app) RegisterCheck(name string, check health.CheckFunc) {
	if a.health == nil {
		return
	}
	a.health.RegisterCheck(name, check)
}

func (a *app) OnClose(fn func() error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, fn)
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules. A panic while a module starts,
// typically from a service factory, is returned as an error.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := a.startModule(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) startModule(ctx context.Context, m Module) (err error) {
	defer func() {
		if r := recover(); r != nil {
			name := fmt.Sprintf("%T", m)
			a.logger.Debug(ctx, "module startup panicked", "module", name, "stack", string(debug.Stack()))
			err = startupError(name, r)
		}
	}()
	return m.Startup(ctx, a)
}

// startupError keeps an AppError found in the panic value so callers still see its code.
func startupError(module string, r any) error {
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%v", r)
	}
	if apperror.IsAppError(cause) {
		return fmt.Errorf("%s: %w", module, cause)
	}
	return apperror.Internal(apperror.CodeModuleStartupFailed, module, cause)
}

// Close runs the registered cleanups, newest first. It is safe to call more than once.
func (a *app) Close() error {
	a.mu.Lock()
	if a.isClosed {
		a.mu.Unlock()
		return nil
	}
	a.isClosed = true
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
