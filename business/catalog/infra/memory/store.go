// Package memory provides an in-process ProductStore backed by a snapshot.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/fd1az/seller-scout/business/catalog/app"
	"github.com/fd1az/seller-scout/business/catalog/domain"
	"github.com/fd1az/seller-scout/business/catalog/infra/wire"
	screeningApp "github.com/fd1az/seller-scout/business/screening/app"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
	"github.com/fd1az/seller-scout/internal/apperror"
)

var _ app.ProductStore = (*Store)(nil)

// Store holds products in catalog order. Search runs the shared evaluator so
// results match local filtering exactly.
type Store struct {
	evaluator *screeningApp.Evaluator

	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
}

// NewStore validates products and returns a store holding them.
func NewStore(evaluator *screeningApp.Evaluator, products []domain.Product) (*Store, error) {
	s := &Store{evaluator: evaluator}
	if err := s.Replace(products); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace swaps the whole snapshot. Ids must be unique.
func (s *Store) Replace(products []domain.Product) error {
	index := make(map[string]int, len(products))
	snapshot := make([]domain.Product, len(products))
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := index[p.ID]; dup {
			return apperror.New(apperror.CodeInvalidProduct,
				apperror.WithContext(p.ID),
				apperror.WithMessage("duplicate product id"))
		}
		index[p.ID] = i
		snapshot[i] = p
	}

	s.mu.Lock()
	s.products, s.index = snapshot, index
	s.mu.Unlock()
	return nil
}

// Upsert adds p or replaces the product with the same id in place.
func (s *Store) Upsert(p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[p.ID]; ok {
		s.products[i] = p
		return nil
	}
	s.index[p.ID] = len(s.products)
	s.products = append(s.products, p)
	return nil
}

func (s *Store) FetchAll(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...), nil
}

func (s *Store) FetchByID(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return nil, apperror.NotFound(apperror.CodeProductNotFound, id)
	}
	p := s.products[i]
	return &p, nil
}

func (s *Store) Search(ctx context.Context, spec screeningDomain.FilterSpec) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluator.FilterProducts(s.products, spec), nil
}

// Len returns the number of products held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// LoadFixture reads a JSON array of wire products from path.
func LoadFixture(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.New(apperror.CodeFixtureLoadFailed, apperror.WithContext(path), apperror.WithCause(err))
	}
	return DecodeFixture(data)
}

// DecodeFixture parses a JSON array of wire products.
func DecodeFixture(data []byte) ([]domain.Product, error) {
	var records []wire.Product
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperror.New(apperror.CodeFixtureLoadFailed, apperror.WithCause(err))
	}
	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		p, err := r.ToDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
