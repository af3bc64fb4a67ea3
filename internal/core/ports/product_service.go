package ports

import (
	"context"

	"github.com/storefront/catalog-api/internal/core/domain"
)

// ProductInput carries the writable product fields.
type ProductInput struct {
	SKU         string
	Name        string
	Description string
	Price       int64
	Currency    string
	Stock       int64
}

// ListProductsResult is returned by ProductService.List.
type ListProductsResult struct {
	Items      []*domain.Product
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ProductService defines catalog use cases. Mutations receive the verified
// caller so they can record and scope by subject.
type ProductService interface {
	Create(ctx context.Context, actor domain.Identity, input ProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, page, limit int) (*ListProductsResult, error)
	Update(ctx context.Context, actor domain.Identity, id string, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, actor domain.Identity, id string) error
}
