package domain

import (
	"context"
	"time"
)

// Categories the catalog recognizes.
const (
	CategoryIphone      = "iphone"
	CategoryIpad        = "ipad"
	CategoryMac         = "mac"
	CategoryWatch       = "watch"
	CategoryAirpods     = "airpods"
	CategoryAccessories = "accessories"
)

// Color is a single color option of a product.
type Color struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product represents a catalog product entry
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"index"`
	Price       float64   `json:"price" gorm:"not null"`
	Colors      []Color   `json:"colors" gorm:"serializer:json"`
	Features    []string  `json:"features" gorm:"serializer:json"`
	Thumbnail   string    `json:"thumbnail"`
	Rating      float64   `json:"rating" gorm:"default:0"`
	NumReviews  int       `json:"num_reviews" gorm:"default:0"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// InStock checks if the product has inventory left
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// HasFeature reports whether the product carries the given feature string.
func (p *Product) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// HasColor reports whether the product is offered in the given color name.
func (p *Product) HasColor(name string) bool {
	for _, c := range p.Colors {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ProductRepository defines the contract for catalog data access.
// The catalog is owned elsewhere; this service only reads from it.
type ProductRepository interface {
	FindByFilter(ctx context.Context, filter Filter) ([]Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id uint) (*Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Product, error)
	FindByCategory(ctx context.Context, category string) ([]Product, error)
	Count(ctx context.Context) (int64, error)
}
