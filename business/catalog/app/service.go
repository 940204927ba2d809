package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fd1az/seller-scout/business/catalog/domain"
	screeningApp "github.com/fd1az/seller-scout/business/screening/app"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apm"
	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/logger"
)

// FilterMode selects where a search is evaluated.
type FilterMode string

const (
	// FilterModeLocal fetches the whole catalog and filters in process.
	FilterModeLocal FilterMode = "local"
	// FilterModeRemote delegates filtering to the store.
	FilterModeRemote FilterMode = "remote"
)

// ParseFilterMode accepts "local" and "remote"; empty means local.
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(s); m {
	case "":
		return FilterModeLocal, nil
	case FilterModeLocal, FilterModeRemote:
		return m, nil
	}
	return "", apperror.Validation(apperror.CodeInvalidInput, "filter mode "+s)
}

// CatalogService is the read side of the catalog used by other contexts.
type CatalogService struct {
	store     ProductStore
	evaluator *screeningApp.Evaluator
	mode      FilterMode
	logger    logger.LoggerInterface
	tracer    apm.Tracer
}

// NewCatalogService creates the service. mode is used when Search is called without one.
func NewCatalogService(store ProductStore, evaluator *screeningApp.Evaluator, mode FilterMode, log logger.LoggerInterface) *CatalogService {
	if mode == "" {
		mode = FilterModeLocal
	}
	return &CatalogService{
		store:     store,
		evaluator: evaluator,
		mode:      mode,
		logger:    log,
		tracer:    apm.NewTracer("catalog"),
	}
}

// Mode returns the default filter mode.
func (s *CatalogService) Mode() FilterMode {
	return s.mode
}

// All returns every product in the catalog.
func (s *CatalogService) All(ctx context.Context) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.all")
	defer span.End()

	products, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, span.Fail(err)
	}
	span.Count("products", len(products))
	return products, nil
}

// Get returns a single product.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.get", attribute.String("product_id", id))
	defer span.End()

	if id == "" {
		return nil, apperror.Validation(apperror.CodeRequiredField, "product id")
	}
	p, err := s.store.FetchByID(ctx, id)
	if err != nil {
		return nil, span.Fail(err)
	}
	return p, nil
}

// Search returns the products matching spec. An empty mode uses the service default.
// Both modes return results in catalog order.
func (s *CatalogService) Search(ctx context.Context, spec screeningDomain.FilterSpec, mode FilterMode) ([]domain.Product, error) {
	if mode == "" {
		mode = s.mode
	}

	ctx, span := s.tracer.Start(ctx, "catalog.search",
		attribute.String("mode", string(mode)),
		attribute.Bool("active_filters", spec.HasActiveFilters()),
	)
	defer span.End()

	var (
		products []domain.Product
		err      error
	)
	switch mode {
	case FilterModeLocal:
		products, err = s.store.FetchAll(ctx)
		if err == nil {
			products = s.evaluator.FilterProducts(products, spec)
		}
	case FilterModeRemote:
		products, err = s.store.Search(ctx, spec)
	default:
		err = apperror.Validation(apperror.CodeInvalidInput, fmt.Sprintf("filter mode %q", mode))
	}
	if err != nil {
		span.Fail(err)
		s.logger.Warn(ctx, "catalog search failed",
			"mode", mode,
			"error", err,
			"remediation", domain.ClassifyFetchError(err).Remediation(),
		)
		return nil, err
	}

	span.Count("matched", len(products))
	return products, nil
}
