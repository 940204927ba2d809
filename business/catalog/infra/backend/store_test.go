package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/seller-scout/business/catalog/domain"
	"github.com/fd1az/seller-scout/business/catalog/infra/wire"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
	"github.com/fd1az/seller-scout/internal/logger"
)

func record(id string, price int64) wire.Product {
	return wire.FromDomain(domain.Product{
		ID:         id,
		Title:      "Listing " + id,
		Category:   "Toys",
		Price:      decimal.NewFromInt(price),
		Rating:     4.2,
		SellerType: domain.SellerTypeFBA,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newTestStore(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Store {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig(server.URL)
	cfg.RequestsPerMinute = 0
	cfg.RequestTimeout = 2 * time.Second
	for _, m := range mutate {
		m(&cfg)
	}
	s, err := NewStore(cfg, logger.New(io.Discard, logger.LevelError, "test", nil))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_RequiresBaseURL(t *testing.T) {
	_, err := NewStore(Config{}, logger.New(io.Discard, logger.LevelError, "test", nil))
	assert.True(t, apperror.HasCode(err, apperror.CodeConfigurationError))
}

func TestStore_FetchAllCachesSnapshot(t *testing.T) {
	var hits atomic.Int32
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []wire.Product{record("a", 100), record("b", 200)})
	}, func(c *Config) { c.APIToken = "secret" })

	ctx := context.Background()
	first, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].ID)

	first[0].ID = "mutated"
	second, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", second[0].ID)
	assert.Equal(t, int32(1), hits.Load())

	s.Invalidate(ctx, "a")
	_, err = s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestStore_FetchAllWithoutCache(t *testing.T) {
	var hits atomic.Int32
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, []wire.Product{record("a", 100)})
	}, func(c *Config) { c.CacheTTL = 0 })

	for i := 0; i < 3; i++ {
		_, err := s.FetchAll(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestStore_FetchAllDropsInvalidRecords(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		bad := record("bad", 100)
		bad.Price = decimal.Zero
		writeJSON(w, http.StatusOK, []wire.Product{record("a", 100), bad, record("c", 300)})
	})

	products, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].ID)
	assert.Equal(t, "c", products[1].ID)
}

func TestStore_FetchByID(t *testing.T) {
	var hits atomic.Int32
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/products/B0C1":
			writeJSON(w, http.StatusOK, record("B0C1", 499))
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"code": "not_found", "message": "no such product"})
		}
	})

	ctx := context.Background()
	p, err := s.FetchByID(ctx, "B0C1")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(499)))

	_, err = s.FetchByID(ctx, "B0C1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	_, err = s.FetchByID(ctx, "missing")
	assert.True(t, apperror.HasCode(err, apperror.CodeProductNotFound))
	assert.Equal(t, domain.FetchNotFound, domain.ClassifyFetchError(err))

	s.InvalidateAll(ctx)
	_, err = s.FetchByID(ctx, "B0C1")
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestStore_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   apperror.Code
		kind   domain.FetchErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, apperror.CodeCatalogUnauthorized, domain.FetchAuthorization},
		{"forbidden", http.StatusForbidden, apperror.CodeCatalogUnauthorized, domain.FetchAuthorization},
		{"server", http.StatusInternalServerError, apperror.CodeCatalogServerError, domain.FetchServer},
		{"bad_request", http.StatusBadRequest, apperror.CodeCatalogServerError, domain.FetchServer},
		{"throttled", http.StatusTooManyRequests, apperror.CodeRateLimitExceeded, domain.FetchConnectivity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("nope"))
			})
			_, err := s.FetchAll(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, apperror.GetCode(err))
			assert.Equal(t, tt.kind, domain.ClassifyFetchError(err))
		})
	}
}

func TestStore_MalformedBody(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	})
	_, err := s.FetchAll(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeCatalogServerError))
}

func TestStore_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	cfg := DefaultConfig(url)
	cfg.RequestsPerMinute = 0
	s, err := NewStore(cfg, logger.New(io.Discard, logger.LevelError, "test", nil))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.FetchAll(context.Background())
	assert.True(t, apperror.HasCode(err, apperror.CodeCatalogUnavailable))
	assert.Equal(t, domain.FetchConnectivity, domain.ClassifyFetchError(err))
}

func TestStore_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(c *Config) {
		c.Breaker.ConsecutiveFailures = 2
		c.Breaker.Timeout = time.Hour
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := s.FetchAll(ctx)
		assert.True(t, apperror.HasCode(err, apperror.CodeCatalogServerError))
	}
	healthy, _ := s.Healthy(ctx)
	assert.False(t, healthy)

	_, err := s.FetchAll(ctx)
	assert.True(t, apperror.HasCode(err, apperror.CodeCircuitOpen))
	assert.Equal(t, domain.FetchConnectivity, domain.ClassifyFetchError(err))
	assert.Equal(t, int32(2), hits.Load())
}

func TestStore_NotFoundDoesNotTripBreaker(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, func(c *Config) { c.Breaker.ConsecutiveFailures = 1 })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.FetchByID(ctx, "x")
		assert.True(t, apperror.HasCode(err, apperror.CodeProductNotFound))
	}
	healthy, _ := s.Healthy(ctx)
	assert.True(t, healthy)
}

func TestStore_Search(t *testing.T) {
	var body wire.SearchFilters
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products/search", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, wire.SearchResult{
			Kind:    wire.KindSuccess,
			Success: []wire.Product{record("a", 100)},
		})
	})

	spec := screeningDomain.FilterSpec{
		Category:    "Toys",
		Price:       &screeningDomain.MoneyRange{Min: decimal.NewFromInt(50), Max: decimal.NewFromInt(500)},
		Preferences: screeningDomain.Preferences{HighMargin: true},
	}
	products, err := s.Search(context.Background(), spec)
	require.NoError(t, err)
	require.Len(t, products, 1)

	require.NotNil(t, body.Category)
	assert.Equal(t, "Toys", *body.Category)
	require.NotNil(t, body.PriceRange)
	assert.True(t, body.PriceRange[0].Equal(decimal.NewFromInt(50)))
	assert.True(t, body.HighMarginThreshold)
	assert.Nil(t, body.RatingThreshold)
}

func TestStore_SearchErrorKind(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, wire.SearchResult{Kind: wire.KindError, Error: "index rebuilding"})
	})
	_, err := s.Search(context.Background(), screeningDomain.FilterSpec{})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeCatalogServerError))
	assert.Contains(t, err.Error(), "index rebuilding")
}

func TestStore_SearchUnknownKind(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"__kind__":"pending"}`))
	})
	_, err := s.Search(context.Background(), screeningDomain.FilterSpec{})
	assert.True(t, apperror.HasCode(err, apperror.CodeCatalogServerError))
}

func TestStore_Refresh(t *testing.T) {
	var listHits atomic.Int32
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/refresh":
			w.WriteHeader(http.StatusNoContent)
		default:
			listHits.Add(1)
			writeJSON(w, http.StatusOK, []wire.Product{record("a", 100)})
		}
	})

	ctx := context.Background()
	_, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Refresh(ctx))
	_, err = s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), listHits.Load())
}
