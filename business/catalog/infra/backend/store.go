// Package backend provides a ProductStore over the catalog backend's HTTP API.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/seller-scout/business/catalog/app"
	"github.com/fd1az/seller-scout/business/catalog/domain"
	"github.com/fd1az/seller-scout/business/catalog/infra/wire"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/cache"
	"github.com/fd1az/seller-scout/internal/circuitbreaker"
	"github.com/fd1az/seller-scout/internal/httpclient"
	"github.com/fd1az/seller-scout/internal/logger"
	"github.com/fd1az/seller-scout/internal/ratelimit"
)

const (
	tracerName = "catalog-backend"
	meterName  = "catalog-backend"

	productsEndpoint = "/products"
	searchEndpoint   = "/products/search"
	refreshEndpoint  = "/products/refresh"

	allKey = "all"
)

// Config holds backend adapter settings.
type Config struct {
	BaseURL           string
	APIToken          string
	RequestTimeout    time.Duration
	RequestsPerMinute int
	// CacheTTL of zero disables caching.
	CacheTTL time.Duration
	Breaker  circuitbreaker.Config
}

// DefaultConfig returns sensible defaults for baseURL.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		RequestTimeout:    10 * time.Second,
		RequestsPerMinute: 120,
		CacheTTL:          5 * time.Minute,
		Breaker:           circuitbreaker.DefaultConfig("catalog-backend"),
	}
}

type storeMetrics struct {
	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
	invalidRecords metric.Int64Counter
}

var (
	_ app.ProductStore = (*Store)(nil)
	_ app.Invalidator  = (*Store)(nil)
)

// Store reads the catalog over HTTP. Requests are rate limited and guarded by a
// circuit breaker; full snapshots and single products are cached for CacheTTL.
type Store struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[struct{}]
	ttl     time.Duration

	snapshots *cache.Cache[string, []domain.Product]
	byID      *cache.Cache[string, domain.Product]

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *storeMetrics
}

// NewStore creates the adapter.
func NewStore(cfg Config, log logger.LoggerInterface) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, apperror.Validation(apperror.CodeConfigurationError, "catalog base url")
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = circuitbreaker.DefaultConfig("catalog-backend")
	}
	cfg.Breaker.IsSuccessful = func(err error) bool { return !tripsBreaker(err) }
	cfg.Breaker.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn(context.Background(), "catalog circuit breaker state changed",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	tracer := otel.Tracer(tracerName)

	opts := []httpclient.ClientOption{
		httpclient.WithProviderName("catalog"),
		httpclient.WithBaseURL(cfg.BaseURL),
		httpclient.WithRequestTimeout(cfg.RequestTimeout),
		httpclient.WithTraceOptions(tracer),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	}
	if cfg.APIToken != "" {
		opts = append(opts, httpclient.WithBearerToken(cfg.APIToken))
	}
	client, err := httpclient.NewInstrumentedClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	s := &Store{
		client:    client,
		limiter:   ratelimit.New(cfg.RequestsPerMinute),
		cb:        circuitbreaker.New[struct{}](cfg.Breaker),
		ttl:       cfg.CacheTTL,
		snapshots: cache.New[string, []domain.Product](0),
		byID:      cache.New[string, domain.Product](time.Minute),
		logger:    log,
		tracer:    tracer,
	}
	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return s, nil
}

func (s *Store) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	s.metrics = &storeMetrics{}

	s.metrics.cacheHits, err = meter.Int64Counter(
		"catalog_cache_hits_total",
		metric.WithDescription("Catalog reads served from cache"),
	)
	if err != nil {
		return err
	}

	s.metrics.cacheMisses, err = meter.Int64Counter(
		"catalog_cache_misses_total",
		metric.WithDescription("Catalog reads that went to the backend"),
	)
	if err != nil {
		return err
	}

	s.metrics.invalidRecords, err = meter.Int64Counter(
		"catalog_invalid_records_total",
		metric.WithDescription("Backend product records dropped by validation"),
	)
	return err
}

// FetchAll returns the full catalog.
func (s *Store) FetchAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.backend.fetch_all")
	defer span.End()

	if cached, ok := s.snapshots.Get(ctx, allKey); ok {
		s.metrics.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "fetch_all")))
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return append([]domain.Product(nil), cached...), nil
	}
	s.metrics.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "fetch_all")))

	var records []wire.Product
	err := s.call(ctx, "fetch_all", func() error {
		_, err := s.client.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "products")),
			httpclient.WithResponseErrorHandler(catalogErrorHandler),
		).
			SetResult(&records).
			Get(ctx, productsEndpoint)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	products := s.convert(ctx, records)
	if s.ttl > 0 {
		s.snapshots.Set(ctx, allKey, products, s.ttl)
	}
	span.SetAttributes(attribute.Int("products", len(products)))
	return append([]domain.Product(nil), products...), nil
}

// FetchByID returns a single product.
func (s *Store) FetchByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.backend.fetch_by_id",
		trace.WithAttributes(attribute.String("product_id", id)))
	defer span.End()

	if p, ok := s.byID.Get(ctx, id); ok {
		s.metrics.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "fetch_by_id")))
		return &p, nil
	}
	s.metrics.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "fetch_by_id")))

	var record wire.Product
	err := s.call(ctx, "fetch_by_id", func() error {
		_, err := s.client.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "product")),
			httpclient.WithResponseErrorHandler(catalogErrorHandler),
		).
			SetResult(&record).
			Get(ctx, productsEndpoint+"/"+url.PathEscape(id))
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	p, err := record.ToDomain()
	if err != nil {
		return nil, apperror.External(apperror.CodeCatalogServerError, "fetch_by_id: invalid record", err)
	}
	if s.ttl > 0 {
		s.byID.Set(ctx, id, p, s.ttl)
	}
	return &p, nil
}

// Search delegates filtering to the backend. Search results are not cached.
func (s *Store) Search(ctx context.Context, spec screeningDomain.FilterSpec) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.backend.search")
	defer span.End()

	var result wire.SearchResult
	err := s.call(ctx, "search", func() error {
		_, err := s.client.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "search")),
			httpclient.WithResponseErrorHandler(catalogErrorHandler),
		).
			SetBody(wire.FiltersFromSpec(spec)).
			SetResult(&result).
			Post(ctx, searchEndpoint)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	switch result.Kind {
	case wire.KindSuccess:
	case wire.KindError:
		return nil, apperror.New(apperror.CodeCatalogServerError,
			apperror.WithContext("search"),
			apperror.WithMessage("catalog search failed: "+result.Error))
	default:
		return nil, apperror.New(apperror.CodeCatalogServerError,
			apperror.WithContext("search"),
			apperror.WithMessage(fmt.Sprintf("unknown search result kind %q", result.Kind)))
	}

	products := s.convert(ctx, result.Success)
	span.SetAttributes(attribute.Int("matched", len(products)))
	return products, nil
}

// Refresh asks the backend to rebuild its catalog and drops local caches.
func (s *Store) Refresh(ctx context.Context) error {
	err := s.call(ctx, "refresh", func() error {
		_, err := s.client.NewRequestWithOptions(
			httpclient.WithLabels(httpclient.NewLabel("endpoint", "refresh")),
			httpclient.WithResponseErrorHandler(catalogErrorHandler),
		).Post(ctx, refreshEndpoint)
		return err
	})
	if err != nil {
		return err
	}
	s.InvalidateAll(ctx)
	return nil
}

// Invalidate drops the cached product and the cached snapshot containing it.
func (s *Store) Invalidate(ctx context.Context, productID string) {
	s.byID.Delete(ctx, productID)
	s.snapshots.Delete(ctx, allKey)
}

// InvalidateAll drops every cached read.
func (s *Store) InvalidateAll(ctx context.Context) {
	s.byID.Purge()
	s.snapshots.Purge()
}

// Healthy reports unhealthy while the circuit breaker is open.
func (s *Store) Healthy(ctx context.Context) (bool, string) {
	if st := s.cb.State(); st == circuitbreaker.StateOpen {
		return false, "circuit " + st.String()
	}
	return true, ""
}

// Close stops the cache sweepers.
func (s *Store) Close() error {
	s.snapshots.Close()
	s.byID.Close()
	return nil
}

func (s *Store) call(ctx context.Context, op string, fn func() error) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return classify(op, err)
	}
	_, err := s.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return classify(op, err)
}

// convert drops records that fail validation so one bad listing does not hide the rest.
func (s *Store) convert(ctx context.Context, records []wire.Product) []domain.Product {
	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		p, err := r.ToDomain()
		if err != nil {
			s.metrics.invalidRecords.Add(ctx, 1)
			s.logger.Warn(ctx, "dropping invalid catalog record", "product_id", r.ID, "error", err)
			continue
		}
		products = append(products, p)
	}
	return products
}

func decodeAPIError(body []byte, dst *APIError) error {
	return json.Unmarshal(body, dst)
}
