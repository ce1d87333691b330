package handler

import (
	"context"
	"io"

	"github.com/axionhelmets/storefront-server/internal/model"
)

// AuthService exchanges identity provider tokens for session tokens.
type AuthService interface {
	SignIn(ctx context.Context, idToken string) (model.SessionResult, error)
}

// CatalogService manages the product catalog.
type CatalogService interface {
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	Get(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, product model.Product) (model.Product, error)
	Update(ctx context.Context, id string, update model.ProductUpdate) (model.Product, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, reader io.Reader, size int64, contentType string) (model.Product, error)
	OpenImage(ctx context.Context, id string) (io.ReadCloser, model.ObjectInfo, error)
}

// OrderService places and tracks orders.
type OrderService interface {
	Place(ctx context.Context, params model.PlaceOrderParams) (model.Order, error)
	Get(ctx context.Context, caller model.User, id string) (model.Order, error)
	ListMine(ctx context.Context, caller model.User) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	MarkPaid(ctx context.Context, caller model.User, id string) (model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
