package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
)

// mockLogger records warnings.
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any) {
	m.mu.Lock()
	m.warns = append(m.warns, msg)
	m.mu.Unlock()
}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

type fakeStore struct {
	data    map[string][]byte
	ttls    map[string]time.Duration
	failAll error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	if f.failAll != nil {
		return nil, false, f.failAll
	}
	d, ok := f.data[key]
	return d, ok, nil
}

func (f *fakeStore) Save(_ context.Context, key string, data []byte, ttl time.Duration) error {
	if f.failAll != nil {
		return f.failAll
	}
	f.data[key] = data
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	if f.failAll != nil {
		return f.failAll
	}
	delete(f.data, key)
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return f.failAll }

func TestDecodeState_AcceptsLooseTypes(t *testing.T) {
	doc := `{
		"category": "Electronics",
		"priceMin": 100,
		"priceMax": "2500.5",
		"ratingThreshold": 4,
		"reviewCountMax": null,
		"bsrMin": "1",
		"bsrMax": 5000,
		"lowFBACount": "true",
		"highMarginThreshold": true,
		"nonBrandedFriendly": 1,
		"somethingNew": {"nested": [1, 2]}
	}`

	spec, err := DecodeState([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "Electronics", spec.Category)
	require.NotNil(t, spec.Price)
	assert.True(t, spec.Price.Max.Equal(decimal.RequireFromString("2500.5")))
	require.NotNil(t, spec.RatingThreshold)
	assert.Equal(t, 4.0, *spec.RatingThreshold)
	assert.Nil(t, spec.ReviewCountMax)
	require.NotNil(t, spec.BSR)
	assert.Equal(t, uint64(5000), spec.BSR.Max)
	assert.True(t, spec.LowCompetition)
	assert.True(t, spec.HighMargin)
	assert.False(t, spec.NonBranded)
}

func TestDecodeState_Corrupt(t *testing.T) {
	for _, doc := range []string{"", "not json", "[1,2,3]", `{"category":`} {
		spec, err := DecodeState([]byte(doc))
		assert.True(t, apperror.HasCode(err, apperror.CodeFilterStateCorrupt), "doc %q", doc)
		assert.False(t, spec.HasActiveFilters())
	}
}

func TestEncodeState_UsesSessionKeys(t *testing.T) {
	spec := Normalize(domain.RawFilterInput{Category: "Toys", BSRMin: "1", BSRMax: "10", LowFBACount: true})

	data, err := EncodeState(spec)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"category":"Toys"`)
	assert.Contains(t, string(data), `"bsrMax":"10"`)
	assert.Contains(t, string(data), `"lowFBACount":true`)

	back, err := DecodeState(data)
	require.NoError(t, err)
	assert.True(t, spec.Equal(back))
}

func TestFilterStateService_ApplyLoadReset(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := NewFilterStateService(store, time.Hour, &mockLogger{})

	spec, err := svc.Apply(ctx, "sess-1", domain.RawFilterInput{Category: "Beauty", PriceMin: "50", PriceMax: "300"})
	require.NoError(t, err)
	assert.Equal(t, "Beauty", spec.Category)
	assert.Contains(t, store.data, "sess-1:productFilters")
	assert.Equal(t, time.Hour, store.ttls["sess-1:productFilters"])

	loaded, err := svc.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, spec.Equal(loaded))

	other, err := svc.Load(ctx, "sess-2")
	require.NoError(t, err)
	assert.False(t, other.HasActiveFilters(), "sessions must not share state")

	require.NoError(t, svc.Reset(ctx, "sess-1"))
	cleared, err := svc.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, cleared.HasActiveFilters())
}

func TestFilterStateService_CorruptStateFallsBack(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.data[Key("s")] = []byte("{{{")
	log := &mockLogger{}
	svc := NewFilterStateService(store, 0, log)

	spec, err := svc.Load(ctx, "s")
	require.NoError(t, err)
	assert.False(t, spec.HasActiveFilters())
	assert.Len(t, log.warns, 1)
}

func TestFilterStateService_StoreErrors(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.failAll = errors.New("connection refused")
	svc := NewFilterStateService(store, 0, &mockLogger{})

	_, err := svc.Load(ctx, "s")
	assert.True(t, apperror.HasCode(err, apperror.CodeFilterStateStore))
	assert.True(t, apperror.HasCode(svc.Save(ctx, "s", domain.FilterSpec{}), apperror.CodeFilterStateStore))
	assert.True(t, apperror.HasCode(svc.Reset(ctx, "s"), apperror.CodeFilterStateStore))

	ok, reason := svc.Healthy(ctx)
	assert.False(t, ok)
	assert.Equal(t, "connection refused", reason)
}

func TestFilterStateService_RejectsBadSessionIDs(t *testing.T) {
	ctx := context.Background()
	svc := NewFilterStateService(newFakeStore(), 0, &mockLogger{})

	for _, id := range []string{"", "   ", "has space", string(make([]byte, 200))} {
		_, err := svc.Load(ctx, id)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidSessionID), "id %q", id)
	}
}
