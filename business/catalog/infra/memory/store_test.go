package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/seller-scout/business/catalog/domain"
	screeningApp "github.com/fd1az/seller-scout/business/screening/app"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
)

func item(id, category string, price int64) domain.Product {
	return domain.Product{ID: id, Title: id, Category: category, Price: decimal.NewFromInt(price), Rating: 4}
}

func newStore(t *testing.T, products ...domain.Product) *Store {
	t.Helper()
	s, err := NewStore(screeningApp.NewEvaluator(screeningApp.DefaultPreferencePolicy()), products)
	require.NoError(t, err)
	return s
}

func TestStore_FetchAndSearch(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, item("a", "Toys", 100), item("b", "Books", 200), item("c", "Toys", 300))

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	all[0].ID = "mutated"

	p, err := s.FetchByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", p.ID, "FetchAll must return a copy")

	_, err = s.FetchByID(ctx, "zzz")
	assert.True(t, apperror.HasCode(err, apperror.CodeProductNotFound))

	found, err := s.Search(ctx, screeningDomain.FilterSpec{Category: "Toys"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "a", found[0].ID)
	assert.Equal(t, "c", found[1].ID)
}

func TestStore_RejectsInvalidAndDuplicates(t *testing.T) {
	ev := screeningApp.NewEvaluator(screeningApp.DefaultPreferencePolicy())

	_, err := NewStore(ev, []domain.Product{item("a", "Toys", 100), item("a", "Toys", 150)})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidProduct))

	_, err = NewStore(ev, []domain.Product{item("free", "Toys", 0)})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidProduct))
}

func TestStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, item("a", "Toys", 100))

	require.NoError(t, s.Upsert(item("a", "Toys", 120)))
	require.NoError(t, s.Upsert(item("b", "Books", 90)))
	assert.Equal(t, 2, s.Len())

	p, err := s.FetchByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(120)))
}

func TestLoadFixture(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":"p1","title":"Steel Bottle","category":"Home & Kitchen","price":"349","rating":4.4,"reviewCount":"88","bsr":"2300","estimatedMonthlySales":"410","margin":0.31,"sellerType":"fba"},
		{"id":"p2","title":"Yoga Mat","category":"Sports","price":899,"rating":4.1,"reviewCount":1200,"bsr":900,"estimatedMonthlySales":650,"margin":0.22,"sellerType":"easyShip"}
	]`), 0o600))

	products, err := LoadFixture(path)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, uint64(88), products[0].ReviewCount)
	assert.Equal(t, domain.SellerTypeEasyShip, products[1].SellerType)

	_, err = LoadFixture(filepath.Join(dir, "missing.json"))
	assert.True(t, apperror.HasCode(err, apperror.CodeFixtureLoadFailed))

	_, err = DecodeFixture([]byte(`{"not":"an array"}`))
	assert.True(t, apperror.HasCode(err, apperror.CodeFixtureLoadFailed))
}

func TestLoadFixture_RepositoryFixture(t *testing.T) {
	products, err := LoadFixture(filepath.Join("..", "..", "..", "..", "testdata", "products.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}
