package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// ListProductsFilter carries pagination for product listing.
type ListProductsFilter struct {
	Page  int // 1-based
	Limit int
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	// Create returns domain.ErrProductExists when the SKU is taken.
	Create(ctx context.Context, p *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}
