package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tair/catalog-search/internal/search/domain"
)

// MemoryProductRepository is an in-memory catalog used by tests and local
// development. Products are returned in id-ascending order so downstream
// stable sorts see a deterministic upstream order.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uint]domain.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[uint]domain.Product)}
}

// Seed replaces the stored catalog with the given products.
func (r *MemoryProductRepository) Seed(products []domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make(map[uint]domain.Product, len(products))
	for _, p := range products {
		r.products[p.ID] = p
	}
}

func (r *MemoryProductRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Matches(&p) {
			matched = append(matched, p)
		}
	}
	sortByID(matched)
	return matched, nil
}

func (r *MemoryProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.FindByFilter(ctx, domain.Filter{IncludeOutOfStock: true})
}

func (r *MemoryProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return &p, nil
}

func (r *MemoryProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *MemoryProductRepository) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.FindByFilter(ctx, domain.Filter{Category: category, IncludeOutOfStock: true})
}

func (r *MemoryProductRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDependency, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

func sortByID(products []domain.Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
}
