// Package app contains the catalog read service and its store port.
package app

import (
	"context"

	"github.com/fd1az/seller-scout/business/catalog/domain"
	screeningDomain "github.com/fd1az/seller-scout/business/screening/domain"
)

// ProductStore reads products from the catalog owner. Implementations return
// apperror values with the catalog error codes.
type ProductStore interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
	// FetchByID returns a PRODUCT_NOT_FOUND error for unknown ids.
	FetchByID(ctx context.Context, id string) (*domain.Product, error)
	// Search must apply the same predicate semantics as the local evaluator.
	Search(ctx context.Context, spec screeningDomain.FilterSpec) ([]domain.Product, error)
}

// Invalidator is implemented by stores that cache catalog reads.
type Invalidator interface {
	Invalidate(ctx context.Context, productID string)
	InvalidateAll(ctx context.Context)
}
