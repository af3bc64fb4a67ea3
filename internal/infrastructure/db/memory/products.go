package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

type ProductRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Product
	bySKU map[string]string
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		byID:  make(map[string]*domain.Product),
		bySKU: make(map[string]string),
	}
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySKU[p.SKU]; taken {
		return domain.ErrProductExists
	}
	clone := *p
	r.byID[p.ID] = &clone
	r.bySKU[p.SKU] = p.ID
	return nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

// List orders by creation time, then id, matching the Mongo repository.
func (r *ProductRepository) List(_ context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	all := make([]*domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		clone := *p
		all = append(all, &clone)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	total := int64(len(all))
	if f.Limit <= 0 {
		return all, total, nil
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	// Compare before multiplying so a huge page cannot wrap around.
	if page-1 >= (len(all)+f.Limit-1)/f.Limit {
		return []*domain.Product{}, total, nil
	}
	skip := (page - 1) * f.Limit
	end := skip + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], total, nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if owner, taken := r.bySKU[p.SKU]; taken && owner != p.ID {
		return domain.ErrProductExists
	}
	delete(r.bySKU, current.SKU)
	clone := *p
	r.byID[p.ID] = &clone
	r.bySKU[p.SKU] = p.ID
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	delete(r.bySKU, p.SKU)
	delete(r.byID, id)
	return nil
}
