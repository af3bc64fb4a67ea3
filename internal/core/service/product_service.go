package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger, now: time.Now}
}

// Create adds a product to the catalog, recording the creating administrator.
func (s *ProductService) Create(ctx context.Context, actor domain.Identity, in ports.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Product{
		ID:          uuid.NewString(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Currency:    in.Currency,
		Stock:       in.Stock,
		CreatedBy:   actor.Subject,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("sku", in.SKU).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Str("product_id", p.ID).Str("sku", p.SKU).Str("actor", actor.Subject).Msg("product created")
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns one page of products. page is 1-based; limit is clamped to
// [1, 100]. page is capped so that page*limit never overflows an int.
func (s *ProductService) List(ctx context.Context, page, limit int) (*ports.ListProductsResult, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	items, total, err := s.repo.List(ctx, ports.ListProductsFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *ProductService) Update(ctx context.Context, actor domain.Identity, id string, in ports.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.SKU = in.SKU
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Currency = in.Currency
	p.Stock = in.Stock
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", p.ID).Str("actor", actor.Subject).Msg("product updated")
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Str("actor", actor.Subject).Msg("product deleted")
	return nil
}
