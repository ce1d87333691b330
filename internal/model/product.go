package model

import (
	"context"
	"time"
)

// DefaultCategory is assigned to products created without a category.
const DefaultCategory = "helmet"

// ProductStore defines persistence operations for the catalog.
type ProductStore interface {
	List(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id string, update ProductUpdate) (Product, error)
	Delete(ctx context.Context, id string) error
	// Replace removes every product and inserts the given ones.
	Replace(ctx context.Context, products []Product) ([]Product, error)
}

// Product is a catalog entry. Price is in minor currency units.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFilter narrows List results; zero values match everything.
type ProductFilter struct {
	Category string
	Featured *bool
}

// ProductUpdate holds optional product changes; nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string
	Price       *int64
	Image       *string
	Description *string
	Stock       *int
	Category    *string
	Featured    *bool
}
