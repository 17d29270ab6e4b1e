package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/catalog-search/internal/search/domain"
)

// GormProductRepository reads the catalog from PostgreSQL. Scalar predicates
// (category, price, stock) are pushed down to SQL; color, feature and text
// predicates are refined in memory because colors and features live in JSON
// columns.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

func (r *GormProductRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]domain.Product, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Product{})
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		tx = tx.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		tx = tx.Where("price <= ?", *filter.MaxPrice)
	}
	if !filter.IncludeOutOfStock {
		tx = tx.Where("stock > 0")
	}

	var products []domain.Product
	if err := tx.Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: catalog query: %v", domain.ErrDependency, err)
	}

	matched := products[:0]
	for i := range products {
		if filter.Matches(&products[i]) {
			matched = append(matched, products[i])
		}
	}
	return matched, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: catalog query: %v", domain.ErrDependency, err)
	}
	return products, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: catalog query: %v", domain.ErrDependency, err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	var products []domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: catalog query: %v", domain.ErrDependency, err)
	}
	return products, nil
}

func (r *GormProductRepository) FindByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).Where("category = ?", category).Order("id ASC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("%w: catalog query: %v", domain.ErrDependency, err)
	}
	return products, nil
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: catalog query: %v", domain.ErrDependency, err)
	}
	return count, nil
}
