package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/logger"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// Catalog manages products and their images.
type Catalog struct {
	products model.ProductStore
	storage  model.Storage
	logger   *logger.Logger
}

func NewCatalog(products model.ProductStore, storage model.Storage, logger *logger.Logger) *Catalog {
	return &Catalog{products: products, storage: storage, logger: logger}
}

func (s *Catalog) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *Catalog) Get(ctx context.Context, id string) (model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, apiErrors.NewErrProductNotFound(id)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *Catalog) Create(ctx context.Context, product model.Product) (model.Product, error) {
	if product.Category == "" {
		product.Category = model.DefaultCategory
	}
	if err := validateProduct(product); err != nil {
		return model.Product{}, err
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		s.logger.Error("Catalog service: failed to create product",
			"name", product.Name,
			"error", err.Error())
		return model.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Catalog service: product created",
		"product_id", created.ID)

	return created, nil
}

func (s *Catalog) Update(ctx context.Context, id string, update model.ProductUpdate) (model.Product, error) {
	if update.Price != nil && *update.Price < 0 {
		return model.Product{}, apiErrors.NewErrValidation("price must not be negative")
	}
	if update.Stock != nil && *update.Stock < 0 {
		return model.Product{}, apiErrors.NewErrValidation("stock must not be negative")
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return model.Product{}, apiErrors.NewErrValidation("name must not be empty")
	}

	updated, err := s.products.Update(ctx, id, update)
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, apiErrors.NewErrProductNotFound(id)
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to update product: %w", err)
	}

	return updated, nil
}

// Delete removes the product and its uploaded image, if any.
func (s *Catalog) Delete(ctx context.Context, id string) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return apiErrors.NewErrProductNotFound(id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	key := imageKey(id)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		s.logger.Warn("Catalog service: failed to check product image",
			"product_id", id,
			"error", err.Error())
		return nil
	}
	if exists {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn("Catalog service: failed to delete product image",
				"product_id", id,
				"error", err.Error())
		}
	}

	s.logger.Info("Catalog service: product deleted",
		"product_id", id)

	return nil
}

// imageTypes are the raster formats accepted for product images.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// UploadImage stores an image for the product and points the product's image
// field at the image endpoint.
func (s *Catalog) UploadImage(ctx context.Context, id string, reader io.Reader, size int64, contentType string) (model.Product, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !imageTypes[mediaType] {
		return model.Product{}, apiErrors.NewErrValidation("image must be jpeg, png, webp or gif")
	}
	contentType = mediaType

	if _, err := s.Get(ctx, id); err != nil {
		return model.Product{}, err
	}

	if err := s.storage.Upload(ctx, imageKey(id), reader, size, contentType); err != nil {
		s.logger.Error("Catalog service: failed to upload image",
			"product_id", id,
			"error", err.Error())
		return model.Product{}, fmt.Errorf("failed to upload image: %w", err)
	}

	url := ImageURL(id)
	return s.Update(ctx, id, model.ProductUpdate{Image: &url})
}

// OpenImage returns the stored image of the product. The caller closes the reader.
func (s *Catalog) OpenImage(ctx context.Context, id string) (io.ReadCloser, model.ObjectInfo, error) {
	reader, info, err := s.storage.Download(ctx, imageKey(id))
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ObjectInfo{}, apiErrors.NewErrImageNotFound(id)
	}
	if err != nil {
		return nil, model.ObjectInfo{}, fmt.Errorf("failed to download image: %w", err)
	}
	return reader, info, nil
}

// Seed replaces the whole catalog with the given products.
func (s *Catalog) Seed(ctx context.Context, products []model.Product) ([]model.Product, error) {
	for i := range products {
		if products[i].Category == "" {
			products[i].Category = model.DefaultCategory
		}
		if err := validateProduct(products[i]); err != nil {
			return nil, err
		}
	}

	seeded, err := s.products.Replace(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("failed to replace catalog: %w", err)
	}

	s.logger.Info("Catalog service: catalog seeded",
		"count", len(seeded))

	return seeded, nil
}

// ImageURL is the public path an uploaded product image is served from.
func ImageURL(productID string) string {
	return "/api/products/" + productID + "/image"
}

func imageKey(productID string) string {
	return "products/" + productID
}

func validateProduct(p model.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return apiErrors.NewErrValidation("name is required")
	case p.Price < 0:
		return apiErrors.NewErrValidation("price must not be negative")
	case p.Stock < 0:
		return apiErrors.NewErrValidation("stock must not be negative")
	case strings.TrimSpace(p.Image) == "":
		return apiErrors.NewErrValidation("image is required")
	case strings.TrimSpace(p.Description) == "":
		return apiErrors.NewErrValidation("description is required")
	}
	return nil
}
